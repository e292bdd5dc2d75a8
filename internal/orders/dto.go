package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// LineView is the read-only projection of a purchased line.
type LineView struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
}

// View is the read-only projection of an order for listings and detail
// pages. Lines are only populated on detail reads.
type View struct {
	ID             uuid.UUID  `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	City           string     `json:"city"`
	Street         string     `json:"street"`
	DeliveryMethod string     `json:"delivery_method"`
	PaymentMethod  string     `json:"payment_method"`
	Status         string     `json:"status"`
	StatusCode     int        `json:"status_code"`
	PaymentError   *string    `json:"payment_error,omitempty"`
	Subtotal       int64      `json:"subtotal"`
	DeliveryFee    int64      `json:"delivery_fee"`
	Total          int64      `json:"total"`
	Lines          []LineView `json:"lines,omitempty"`
}

func lineViews(lines []models.PurchasedLine) []LineView {
	out := make([]LineView, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineView{
			ProductID: line.ProductID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}
	return out
}

func subtotalOf(lines []LineView) int64 {
	var sum int64
	for _, line := range lines {
		sum += line.LineTotal
	}
	return sum
}
