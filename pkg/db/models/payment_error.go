package models

// PaymentError is a catalog row describing why a simulated settlement was
// declined. Rows are seeded by migration and referenced from orders.
type PaymentError struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Code    string `gorm:"column:code;not null;uniqueIndex"`
	Message string `gorm:"column:message;not null"`
}

// TableName overrides the default pluralization.
func (PaymentError) TableName() string {
	return "payment_errors"
}
