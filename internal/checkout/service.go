// Package checkout converts an active member cart into an order with
// immutable purchased-line snapshots.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cacheKeys interface {
	CartCacheKey(owner string) string
}

// Input is the validated delivery form feeding checkout.
type Input struct {
	City           string
	Street         string
	DeliveryMethod enums.DeliveryMethod
	PaymentMethod  enums.PaymentMethod
}

// Confirmation is returned to the caller after a successful checkout.
type Confirmation struct {
	Order        *models.Order
	Lines        []models.PurchasedLine
	Subtotal     int64
	DeliveryFee  int64
	TotalPayable int64
}

// Service creates orders from member carts.
type Service interface {
	CreateOrder(ctx context.Context, accountID uuid.UUID, input Input) (*Confirmation, error)
}

type service struct {
	tx       txRunner
	members  *cart.MemberStore
	catalog  *catalog.Repository
	orders   orders.Repository
	delivery config.DeliveryConfig
	cache    *cache.Cache
	keys     cacheKeys
	metrics  *metrics.ShopMetrics
	logg     *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(tx txRunner, members *cart.MemberStore, catalogRepo *catalog.Repository, ordersRepo orders.Repository, delivery config.DeliveryConfig, readCache *cache.Cache, keys cacheKeys, shopMetrics *metrics.ShopMetrics, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if members == nil {
		return nil, fmt.Errorf("member cart store required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
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
		tx:       tx,
		members:  members,
		catalog:  catalogRepo,
		orders:   ordersRepo,
		delivery: delivery,
		cache:    readCache,
		keys:     keys,
		metrics:  shopMetrics,
		logg:     logg,
	}, nil
}

// CreateOrder snapshots the member's cart into an order. The order row,
// its purchased lines and the cart clear commit together or not at all.
func (s *service) CreateOrder(ctx context.Context, accountID uuid.UUID, input Input) (*Confirmation, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires an authenticated account")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	owner := cart.MemberOwner(accountID)

	var (
		order    *models.Order
		lines    []models.PurchasedLine
		subtotal int64
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txMembers := s.members.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)
		txOrders := s.orders.WithTx(tx)

		quantities, err := txMembers.Quantities(ctx, owner)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
		}
		if len(quantities) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no lines to order")
		}

		ids := make([]uuid.UUID, 0, len(quantities))
		for id := range quantities {
			ids = append(ids, id)
		}
		products, err := txCatalog.ListByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
		}
		if len(products) != len(quantities) {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart references a product that no longer exists")
		}

		order, err = txOrders.Create(ctx, &models.Order{
			AccountID:      accountID,
			City:           input.City,
			Street:         input.Street,
			DeliveryMethod: input.DeliveryMethod,
			PaymentMethod:  input.PaymentMethod,
			Status:         enums.OrderStatusRegistered,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		lines = make([]models.PurchasedLine, 0, len(products))
		subtotal = 0
		for _, product := range products {
			qty := quantities[product.ID]
			unit := pricing.DiscountedUnitPrice(product.Price, product.DiscountPercent)
			line := models.PurchasedLine{
				OrderID:   order.ID,
				ProductID: product.ID,
				Title:     product.Title,
				UnitPrice: unit,
				Quantity:  qty,
			}
			lines = append(lines, line)
			subtotal += line.LineTotal()
		}
		if err := txOrders.CreateLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot purchased lines")
		}

		if err := txMembers.Clear(ctx, owner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}

	s.cache.Invalidate(ctx, s.keys.CartCacheKey(owner.Key()))
	s.metrics.IncCheckout()

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order created from cart")

	fee := pricing.DeliveryFee(input.DeliveryMethod, subtotal, s.delivery)
	return &Confirmation{
		Order:        order,
		Lines:        lines,
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		TotalPayable: subtotal + fee,
	}, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(input.Street) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "street is required")
	}
	if !input.DeliveryMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery method")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}
