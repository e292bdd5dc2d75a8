package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Worker drains the settlement queue and settles each task through the
// payment service.
type Worker struct {
	queue *Queue
	svc   Service
	logg  *logger.Logger
}

// NewWorker builds the settlement worker.
func NewWorker(queue *Queue, svc Service, logg *logger.Logger) (*Worker, error) {
	if queue == nil {
		return nil, fmt.Errorf("settlement queue required")
	}
	if svc == nil {
		return nil, fmt.Errorf("payment service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Worker{queue: queue, svc: svc, logg: logg}, nil
}

// Run polls the queue until the context is cancelled. Failed
// settlements are logged and the loop keeps going; a poisoned task must
// not stall everyone behind it.
func (w *Worker) Run(ctx context.Context) error {
	w.logg.Info(ctx, "settlement worker started")
	for {
		if err := ctx.Err(); err != nil {
			w.logg.Info(ctx, "settlement worker stopping")
			return nil
		}

		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrNoTask) {
				continue
			}
			if ctx.Err() != nil {
				w.logg.Info(ctx, "settlement worker stopping")
				return nil
			}
			w.logg.Error(ctx, "dequeue settlement task", err)
			continue
		}

		if err := w.svc.Settle(ctx, task.OrderID, task.CardNumber); err != nil {
			taskCtx := w.logg.WithOrderID(ctx, task.OrderID.String())
			w.logg.Error(taskCtx, "settle payment task", err)
		}
	}
}
