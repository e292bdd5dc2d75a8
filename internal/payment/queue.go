package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Task is one pending settlement pushed onto the queue by submit and
// drained by the worker.
type Task struct {
	OrderID    uuid.UUID `json:"order_id"`
	CardNumber string    `json:"card_number"`
}

// ErrNoTask is returned by Dequeue when the poll timeout elapses with
// nothing pending.
var ErrNoTask = errors.New("no pending payment task")

type queueBackend interface {
	LPush(ctx context.Context, key string, values ...any) error
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error)
}

// Queue is a Redis-backed FIFO of settlement tasks.
type Queue struct {
	backend     queueBackend
	key         string
	pollTimeout time.Duration
}

// NewQueue builds the settlement queue on the given list key.
func NewQueue(backend queueBackend, key string, pollTimeout time.Duration) (*Queue, error) {
	if backend == nil {
		return nil, fmt.Errorf("queue backend required")
	}
	if key == "" {
		return nil, fmt.Errorf("queue key required")
	}
	return &Queue{backend: backend, key: key, pollTimeout: pollTimeout}, nil
}

// Enqueue pushes a settlement task onto the queue.
func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode payment task: %w", err)
	}
	if err := q.backend.LPush(ctx, q.key, payload); err != nil {
		return fmt.Errorf("enqueue payment task: %w", err)
	}
	return nil
}

// Dequeue blocks up to the poll timeout for the next task, returning
// ErrNoTask when the queue stayed empty.
func (q *Queue) Dequeue(ctx context.Context) (*Task, error) {
	values, err := q.backend.BRPop(ctx, q.pollTimeout, q.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoTask
		}
		return nil, fmt.Errorf("dequeue payment task: %w", err)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("unexpected queue reply of %d values", len(values))
	}
	var task Task
	if err := json.Unmarshal([]byte(values[1]), &task); err != nil {
		return nil, fmt.Errorf("decode payment task: %w", err)
	}
	return &task, nil
}
