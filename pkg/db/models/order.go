package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Order captures a checkout: destination address, the chosen courier and
// payment method, and the settlement status. The delivery fee is derived
// from method and subtotal rather than stored.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID      uuid.UUID            `gorm:"column:account_id;type:uuid;not null;index"`
	City           string               `gorm:"column:city;not null"`
	Street         string               `gorm:"column:street;not null"`
	DeliveryMethod enums.DeliveryMethod `gorm:"column:delivery_method;not null"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	Status         enums.OrderStatus    `gorm:"column:status;not null;default:'registered'"`
	PaymentErrorID *int64               `gorm:"column:payment_error_id"`
	PaymentError   *PaymentError        `gorm:"foreignKey:PaymentErrorID"`
	Lines          []PurchasedLine      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Order) TableName() string {
	return "orders"
}
