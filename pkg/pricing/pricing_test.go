package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

func deliveryDefaults() config.DeliveryConfig {
	return config.DeliveryConfig{
		StandardFee:      200,
		ExpressExtraFee:  500,
		FreeFeeThreshold: 2000,
	}
}

func TestDiscountedUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		percent int
		want    int64
	}{
		{name: "no discount", price: "1000", percent: 0, want: 1000},
		{name: "ten percent", price: "1000", percent: 10, want: 900},
		{name: "floors fractional unit", price: "999", percent: 10, want: 899},
		{name: "fractional sticker price", price: "19.99", percent: 0, want: 19},
		{name: "max discount", price: "1000", percent: 90, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.price)
			if got := DiscountedUnitPrice(price, tt.percent); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLineCostFloorsBeforeMultiplying(t *testing.T) {
	// 10% off 1000 is 900 per unit; two units cost 1800.
	price := decimal.RequireFromString("1000")
	if got := LineCost(price, 10, 2); got != 1800 {
		t.Fatalf("expected 1800, got %d", got)
	}

	// 999 at 10% off floors to 899 per unit first; 3 units cost 2697.
	if got := LineCost(decimal.RequireFromString("999"), 10, 3); got != 2697 {
		t.Fatalf("expected 2697, got %d", got)
	}
}

func TestDeliveryFee(t *testing.T) {
	cfg := deliveryDefaults()

	tests := []struct {
		name     string
		method   enums.DeliveryMethod
		subtotal int64
		want     int64
	}{
		{name: "standard below floor", method: enums.DeliveryMethodStandard, subtotal: 1500, want: 200},
		{name: "standard above floor", method: enums.DeliveryMethodStandard, subtotal: 2500, want: 0},
		{name: "standard exactly at floor still pays", method: enums.DeliveryMethodStandard, subtotal: 2000, want: 200},
		{name: "standard one over floor is free", method: enums.DeliveryMethodStandard, subtotal: 2001, want: 0},
		{name: "express below floor", method: enums.DeliveryMethodExpress, subtotal: 1500, want: 700},
		{name: "express above floor keeps surcharge", method: enums.DeliveryMethodExpress, subtotal: 2500, want: 500},
		{name: "express exactly at floor", method: enums.DeliveryMethodExpress, subtotal: 2000, want: 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeliveryFee(tt.method, tt.subtotal, cfg); got != tt.want {
				t.Fatalf("expected fee %d, got %d", tt.want, got)
			}
		})
	}
}
