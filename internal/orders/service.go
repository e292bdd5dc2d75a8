package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pricing"
)

const linesCacheView = "order_lines"

type cacheKeys interface {
	OrderLinesKey(orderID string) string
}

// Service exposes order projections and the back-office bulk actions.
type Service interface {
	Get(ctx context.Context, accountID, orderID uuid.UUID) (*View, error)
	List(ctx context.Context, accountID uuid.UUID) ([]View, error)
	ApplyAdminAction(ctx context.Context, action enums.AdminOrderAction, orderIDs []uuid.UUID) (int, error)
}

type service struct {
	repo     Repository
	cache    *cache.Cache
	keys     cacheKeys
	delivery config.DeliveryConfig
	lineTTL  time.Duration
	logg     *logger.Logger
}

// NewService builds the orders read/admin service.
func NewService(repo Repository, readCache *cache.Cache, keys cacheKeys, delivery config.DeliveryConfig, lineTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if readCache == nil {
		return nil, fmt.Errorf("read cache required")
	}
	if keys == nil {
		return nil, fmt.Errorf("cache key builder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		cache:    readCache,
		keys:     keys,
		delivery: delivery,
		lineTTL:  lineTTL,
		logg:     logg,
	}, nil
}

// Get returns the detail projection, including purchased lines, for an
// order the account owns.
func (s *service) Get(ctx context.Context, accountID, orderID uuid.UUID) (*View, error) {
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

	lines, err := s.cachedLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	view := s.project(order, lines)
	return &view, nil
}

// List returns projections of every order the account owns, newest
// first.
func (s *service) List(ctx context.Context, accountID uuid.UUID) ([]View, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	rows, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		lines, err := s.cachedLines(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		view := s.project(&rows[i], lines)
		view.Lines = nil
		views = append(views, view)
	}
	return views, nil
}

// ApplyAdminAction runs a bulk back-office command over the selected
// orders, skipping rows the action does not apply to, and reports how
// many rows changed.
func (s *service) ApplyAdminAction(ctx context.Context, action enums.AdminOrderAction, orderIDs []uuid.UUID) (int, error) {
	if !action.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown admin action")
	}
	applied := 0
	for _, id := range orderIDs {
		order, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return applied, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch action {
		case enums.AdminOrderActionMarkShipping:
			if order.Status != enums.OrderStatusPaid {
				continue
			}
			if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusShipping, order.PaymentErrorID); err != nil {
				return applied, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shipping")
			}
		case enums.AdminOrderActionResetUnpaid:
			if order.Status == enums.OrderStatusShipping {
				continue
			}
			if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusUnpaid, order.PaymentErrorID); err != nil {
				return applied, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset unpaid")
			}
		}
		applied++
	}
	return applied, nil
}

// cachedLines reads the purchased-line projection through the cache.
// Orders are immutable after checkout, so entries are never explicitly
// invalidated; they just expire.
func (s *service) cachedLines(ctx context.Context, orderID uuid.UUID) ([]LineView, error) {
	key := s.keys.OrderLinesKey(orderID.String())
	var cached []LineView
	if s.cache.GetJSON(ctx, linesCacheView, key, &cached) {
		return cached, nil
	}

	rows, err := s.repo.ListLines(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchased lines")
	}
	views := lineViews(rows)
	s.cache.SetJSON(ctx, key, views, s.lineTTL)
	return views, nil
}

func (s *service) project(order *models.Order, lines []LineView) View {
	subtotal := subtotalOf(lines)
	fee := pricing.DeliveryFee(order.DeliveryMethod, subtotal, s.delivery)

	view := View{
		ID:             order.ID,
		CreatedAt:      order.CreatedAt,
		City:           order.City,
		Street:         order.Street,
		DeliveryMethod: order.DeliveryMethod.String(),
		PaymentMethod:  order.PaymentMethod.String(),
		Status:         order.Status.String(),
		StatusCode:     order.Status.Code(),
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		Total:          subtotal + fee,
		Lines:          lines,
	}
	if order.PaymentError != nil {
		msg := order.PaymentError.Message
		view.PaymentError = &msg
	}
	return view
}
