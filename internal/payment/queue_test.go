package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

type fakeQueueBackend struct {
	lists map[string][]string
}

func newFakeQueueBackend() *fakeQueueBackend {
	return &fakeQueueBackend{lists: map[string][]string{}}
}

func (f *fakeQueueBackend) LPush(ctx context.Context, key string, values ...any) error {
	for _, v := range values {
		var s string
		switch value := v.(type) {
		case string:
			s = value
		case []byte:
			s = string(value)
		}
		f.lists[key] = append([]string{s}, f.lists[key]...)
	}
	return nil
}

func (f *fakeQueueBackend) BRPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error) {
	for _, key := range keys {
		list := f.lists[key]
		if len(list) == 0 {
			continue
		}
		last := list[len(list)-1]
		f.lists[key] = list[:len(list)-1]
		return []string{key, last}, nil
	}
	return nil, redis.Nil
}

func TestQueueRoundTripIsFIFO(t *testing.T) {
	queue, err := NewQueue(newFakeQueueBackend(), "shop:payments:pending", time.Second)
	if err != nil {
		t.Fatalf("building queue: %v", err)
	}
	ctx := context.Background()

	first := Task{OrderID: uuid.New(), CardNumber: "1234"}
	second := Task{OrderID: uuid.New(), CardNumber: "1230"}
	if err := queue.Enqueue(ctx, first); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := queue.Enqueue(ctx, second); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got, err := queue.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got.OrderID != first.OrderID || got.CardNumber != first.CardNumber {
		t.Fatalf("got %+v, want the first task", got)
	}
	if got, err = queue.Dequeue(ctx); err != nil || got.OrderID != second.OrderID {
		t.Fatalf("second dequeue: %+v, %v", got, err)
	}
}

func TestQueueDequeueEmpty(t *testing.T) {
	queue, err := NewQueue(newFakeQueueBackend(), "shop:payments:pending", time.Second)
	if err != nil {
		t.Fatalf("building queue: %v", err)
	}
	if _, err := queue.Dequeue(context.Background()); !errors.Is(err, ErrNoTask) {
		t.Fatalf("expected ErrNoTask, got %v", err)
	}
}

type recordingSettler struct {
	Service
	settled []Task
	done    context.CancelFunc
}

func (r *recordingSettler) Settle(ctx context.Context, orderID uuid.UUID, cardNumber string) error {
	r.settled = append(r.settled, Task{OrderID: orderID, CardNumber: cardNumber})
	r.done()
	return nil
}

func TestWorkerDrainsQueue(t *testing.T) {
	queue, err := NewQueue(newFakeQueueBackend(), "shop:payments:pending", time.Second)
	if err != nil {
		t.Fatalf("building queue: %v", err)
	}
	task := Task{OrderID: uuid.New(), CardNumber: "1234"}
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	settler := &recordingSettler{done: cancel}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	worker, err := NewWorker(queue, settler, logg)
	if err != nil {
		t.Fatalf("building worker: %v", err)
	}
	if err := worker.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(settler.settled) != 1 {
		t.Fatalf("settled %d tasks, want 1", len(settler.settled))
	}
	if settler.settled[0].OrderID != task.OrderID {
		t.Fatalf("settled order %s, want %s", settler.settled[0].OrderID, task.OrderID)
	}
}
