package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Receipt is returned to the buyer right after a payment is submitted,
// before the gateway has decided anything.
type Receipt struct {
	OrderID    uuid.UUID `json:"order_id"`
	Status     string    `json:"status"`
	StatusCode int       `json:"status_code"`
	Queued     bool      `json:"queued"`
}

// StatusView is the polling projection of an order's payment state.
type StatusView struct {
	OrderID      uuid.UUID `json:"order_id"`
	Status       string    `json:"status"`
	StatusCode   int       `json:"status_code"`
	PaymentError *string   `json:"payment_error,omitempty"`
}

// Service submits payments, settles them and answers status polls.
type Service interface {
	Submit(ctx context.Context, accountID, orderID uuid.UUID, cardNumber string) (*Receipt, error)
	Settle(ctx context.Context, orderID uuid.UUID, cardNumber string) error
	Status(ctx context.Context, accountID, orderID uuid.UUID) (*StatusView, error)
}

type service struct {
	repo    orders.Repository
	gateway Gateway
	queue   *Queue
	cfg     config.PaymentConfig
	metrics *metrics.ShopMetrics
	logg    *logger.Logger

	// pickError selects the index of the decline reason among n seeded
	// rows. Index 0 is reserved and never picked when alternatives exist.
	pickError func(n int) int
}

// NewService builds the payment service. The queue may be nil when the
// service runs in inline mode.
func NewService(repo orders.Repository, gateway Gateway, queue *Queue, cfg config.PaymentConfig, shopMetrics *metrics.ShopMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if cfg.Queued() && queue == nil {
		return nil, fmt.Errorf("queued payment mode requires a queue")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		gateway: gateway,
		queue:   queue,
		cfg:     cfg,
		metrics: shopMetrics,
		logg:    logg,
		pickError: func(n int) int {
			return 1 + rand.Intn(n-1)
		},
	}, nil
}

// Submit moves an eligible order to confirming and hands the charge to
// the settlement path, either queued for the worker or settled on a
// background goroutine after the configured delay.
func (s *service) Submit(ctx context.Context, accountID, orderID uuid.UUID, cardNumber string) (*Receipt, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment requires an authenticated account")
	}
	if err := ValidateCardNumber(cardNumber); err != nil {
		return nil, err
	}

	order, err := s.repo.FindByIDAndAccount(ctx, orderID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	next, err := BeginConfirming(order.Status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order confirming")
	}

	queued := s.cfg.Queued()
	if queued {
		if err := s.queue.Enqueue(ctx, Task{OrderID: orderID, CardNumber: cardNumber}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueue settlement")
		}
	} else {
		detached := context.WithoutCancel(ctx)
		go func() {
			if err := s.Settle(detached, orderID, cardNumber); err != nil {
				s.logg.Error(detached, "inline settlement failed", err)
			}
		}()
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(ctx, "payment submitted")

	return &Receipt{
		OrderID:    orderID,
		Status:     next.String(),
		StatusCode: next.Code(),
		Queued:     queued,
	}, nil
}

// Settle asks the gateway to decide a confirming order and records the
// outcome. Orders that left the confirming state are skipped so stale
// or duplicated tasks stay harmless.
func (s *service) Settle(ctx context.Context, orderID uuid.UUID, cardNumber string) error {
	if s.cfg.SettleDelay > 0 {
		select {
		case <-time.After(s.cfg.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	start := time.Now()
	ctx = s.logg.WithOrderID(ctx, orderID.String())

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, "settlement skipped, order no longer exists")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for settlement")
	}
	if order.Status != enums.OrderStatusConfirming {
		s.logg.Warn(ctx, "settlement skipped, order is not confirming")
		return nil
	}

	approved, err := s.gateway.Charge(ctx, cardNumber)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "charge card")
	}

	next, err := SettleOutcome(order.Status, approved)
	if err != nil {
		return err
	}

	var errorID *int64
	if !approved {
		errorID, err = s.declineReason(ctx)
		if err != nil {
			return err
		}
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next, errorID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record settlement")
	}

	s.metrics.ObserveSettlement(next.String(), time.Since(start))
	s.logg.Info(ctx, "payment settled as "+next.String())
	return nil
}

// Status returns the current payment state of an order the account
// owns, for client-side polling.
func (s *service) Status(ctx context.Context, accountID, orderID uuid.UUID) (*StatusView, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	order, err := s.repo.FindByIDAndAccount(ctx, orderID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	view := StatusView{
		OrderID:    order.ID,
		Status:     order.Status.String(),
		StatusCode: order.Status.Code(),
	}
	if order.PaymentError != nil {
		msg := order.PaymentError.Message
		view.PaymentError = &msg
	}
	return &view, nil
}

// declineReason picks one of the seeded gateway errors to attach to a
// declined order. The first seeded row is kept out of the rotation when
// other reasons exist.
func (s *service) declineReason(ctx context.Context) (*int64, error) {
	rows, err := s.repo.ListPaymentErrors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment errors")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := 0
	if len(rows) > 1 {
		idx = s.pickError(len(rows))
		if idx < 1 || idx >= len(rows) {
			idx = 1
		}
	}
	id := rows[idx].ID
	return &id, nil
}
