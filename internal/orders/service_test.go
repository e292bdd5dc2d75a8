package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/cache"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type fakeOrdersRepo struct {
	orders    map[uuid.UUID]*models.Order
	lines     map[uuid.UUID][]models.PurchasedLine
	lineReads int
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{
		orders: map[uuid.UUID]*models.Order{},
		lines:  map[uuid.UUID][]models.PurchasedLine{},
	}
}

func (r *fakeOrdersRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return order, nil
}

func (r *fakeOrdersRepo) CreateLines(ctx context.Context, lines []models.PurchasedLine) error {
	for _, line := range lines {
		r.lines[line.OrderID] = append(r.lines[line.OrderID], line)
	}
	return nil
}

func (r *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrdersRepo) FindByIDAndAccount(ctx context.Context, id, accountID uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.AccountID != accountID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrdersRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range r.orders {
		if order.AccountID == accountID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (r *fakeOrdersRepo) ListLines(ctx context.Context, orderID uuid.UUID) ([]models.PurchasedLine, error) {
	r.lineReads++
	return r.lines[orderID], nil
}

func (r *fakeOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, paymentErrorID *int64) error {
	order, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	order.PaymentErrorID = paymentErrorID
	return nil
}

func (r *fakeOrdersRepo) ListPaymentErrors(ctx context.Context) ([]models.PaymentError, error) {
	return nil, nil
}

type fakeCacheStore struct {
	data map[string]string
}

func (m *fakeCacheStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (m *fakeCacheStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *fakeCacheStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type fakeKeys struct{}

func (fakeKeys) OrderLinesKey(orderID string) string { return "shop:orderlines:" + orderID }

type ordersFixture struct {
	repo *fakeOrdersRepo
	svc  Service
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	repo := newFakeOrdersRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	readCache, err := cache.New(&fakeCacheStore{data: map[string]string{}}, logg, nil)
	if err != nil {
		t.Fatalf("building cache: %v", err)
	}
	delivery := config.DeliveryConfig{StandardFee: 200, ExpressExtraFee: 500, FreeFeeThreshold: 2000}
	svc, err := NewService(repo, readCache, fakeKeys{}, delivery, time.Hour, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &ordersFixture{repo: repo, svc: svc}
}

func (f *ordersFixture) seedOrder(accountID uuid.UUID, status enums.OrderStatus, lines ...models.PurchasedLine) *models.Order {
	order := &models.Order{
		ID:             uuid.New(),
		AccountID:      accountID,
		City:           "Springfield",
		Street:         "12 Elm St",
		DeliveryMethod: enums.DeliveryMethodStandard,
		PaymentMethod:  enums.PaymentMethodCard,
		Status:         status,
	}
	f.repo.orders[order.ID] = order
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	f.repo.lines[order.ID] = lines
	return order
}

func TestGetProjectsOrderWithLines(t *testing.T) {
	f := newOrdersFixture(t)
	accountID := uuid.New()
	order := f.seedOrder(accountID, enums.OrderStatusRegistered,
		models.PurchasedLine{ProductID: uuid.New(), Title: "widget", UnitPrice: 900, Quantity: 2})

	view, err := f.svc.Get(context.Background(), accountID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].LineTotal != 1800 {
		t.Fatalf("lines projected as %+v", view.Lines)
	}
	if view.Subtotal != 1800 || view.DeliveryFee != 200 || view.Total != 2000 {
		t.Fatalf("totals %d/%d/%d", view.Subtotal, view.DeliveryFee, view.Total)
	}
	if view.Status != "registered" || view.StatusCode != 1 {
		t.Fatalf("status projected as %s (%d)", view.Status, view.StatusCode)
	}
}

func TestGetServesLinesFromCacheOnRepeat(t *testing.T) {
	f := newOrdersFixture(t)
	accountID := uuid.New()
	order := f.seedOrder(accountID, enums.OrderStatusPaid,
		models.PurchasedLine{ProductID: uuid.New(), Title: "widget", UnitPrice: 500, Quantity: 1})

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Get(context.Background(), accountID, order.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.repo.lineReads != 1 {
		t.Fatalf("repo lines read %d times, want 1", f.repo.lineReads)
	}
}

func TestGetHidesForeignOrders(t *testing.T) {
	f := newOrdersFixture(t)
	order := f.seedOrder(uuid.New(), enums.OrderStatusRegistered)

	_, err := f.svc.Get(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListOmitsLineDetails(t *testing.T) {
	f := newOrdersFixture(t)
	accountID := uuid.New()
	f.seedOrder(accountID, enums.OrderStatusPaid,
		models.PurchasedLine{ProductID: uuid.New(), Title: "widget", UnitPrice: 2500, Quantity: 1})
	f.seedOrder(uuid.New(), enums.OrderStatusPaid)

	views, err := f.svc.List(context.Background(), accountID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("listed %d orders, want 1", len(views))
	}
	if views[0].Lines != nil {
		t.Fatal("listing must not include line details")
	}
	if views[0].Subtotal != 2500 || views[0].DeliveryFee != 0 {
		t.Fatalf("totals %d/%d", views[0].Subtotal, views[0].DeliveryFee)
	}
}

func TestApplyAdminActionMarkShipping(t *testing.T) {
	f := newOrdersFixture(t)
	paid := f.seedOrder(uuid.New(), enums.OrderStatusPaid)
	registered := f.seedOrder(uuid.New(), enums.OrderStatusRegistered)

	applied, err := f.svc.ApplyAdminAction(context.Background(),
		enums.AdminOrderActionMarkShipping,
		[]uuid.UUID{paid.ID, registered.ID, uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied %d, want 1", applied)
	}
	if f.repo.orders[paid.ID].Status != enums.OrderStatusShipping {
		t.Fatal("paid order must move to shipping")
	}
	if f.repo.orders[registered.ID].Status != enums.OrderStatusRegistered {
		t.Fatal("registered order must be skipped")
	}
}

func TestApplyAdminActionResetUnpaid(t *testing.T) {
	f := newOrdersFixture(t)
	confirming := f.seedOrder(uuid.New(), enums.OrderStatusConfirming)
	shipping := f.seedOrder(uuid.New(), enums.OrderStatusShipping)

	applied, err := f.svc.ApplyAdminAction(context.Background(),
		enums.AdminOrderActionResetUnpaid,
		[]uuid.UUID{confirming.ID, shipping.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied %d, want 1", applied)
	}
	if f.repo.orders[confirming.ID].Status != enums.OrderStatusUnpaid {
		t.Fatal("confirming order must reset to unpaid")
	}
	if f.repo.orders[shipping.ID].Status != enums.OrderStatusShipping {
		t.Fatal("shipping order must be skipped")
	}
}

func TestApplyAdminActionRejectsUnknownAction(t *testing.T) {
	f := newOrdersFixture(t)
	_, err := f.svc.ApplyAdminAction(context.Background(), enums.AdminOrderAction("purge"), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
