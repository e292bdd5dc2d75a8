package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchasedLine is the immutable snapshot of a cart line at checkout.
// UnitPrice holds the discounted per-unit price in whole currency units.
// The product reference is RESTRICT so catalog rows with sales history
// cannot be deleted.
type PurchasedLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (PurchasedLine) TableName() string {
	return "purchased_lines"
}

// LineTotal returns the snapshot cost of the line.
func (p PurchasedLine) LineTotal() int64 {
	return p.UnitPrice * int64(p.Quantity)
}
