package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Repository defines the persistence surface for orders and their
// purchased-line snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLines(ctx context.Context, lines []models.PurchasedLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndAccount(ctx context.Context, id, accountID uuid.UUID) (*models.Order, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Order, error)
	ListLines(ctx context.Context, orderID uuid.UUID) ([]models.PurchasedLine, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, paymentErrorID *int64) error
	ListPaymentErrors(ctx context.Context) ([]models.PaymentError, error)
}
