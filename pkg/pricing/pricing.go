// Package pricing holds the pure money math for carts, orders and
// delivery fees. All results are whole currency units.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// DiscountedUnitPrice applies the product discount to the sticker price
// and floors the result to whole units. The floor happens per unit, before
// any quantity multiplication.
func DiscountedUnitPrice(price decimal.Decimal, discountPercent int) int64 {
	if discountPercent <= 0 {
		return price.Floor().IntPart()
	}
	factor := decimal.NewFromInt(int64(100 - discountPercent)).Div(oneHundred)
	return price.Mul(factor).Floor().IntPart()
}

// LineCost returns the cost of quantity units at the discounted price.
func LineCost(price decimal.Decimal, discountPercent, quantity int) int64 {
	return DiscountedUnitPrice(price, discountPercent) * int64(quantity)
}

// DeliveryFee computes the courier fee for the given subtotal. The free
// shipping floor is a strict threshold: a subtotal exactly at the floor
// still pays the standard fee.
func DeliveryFee(method enums.DeliveryMethod, subtotal int64, cfg config.DeliveryConfig) int64 {
	free := subtotal > cfg.FreeFeeThreshold
	switch method {
	case enums.DeliveryMethodExpress:
		if free {
			return cfg.ExpressExtraFee
		}
		return cfg.StandardFee + cfg.ExpressExtraFee
	default:
		if free {
			return 0
		}
		return cfg.StandardFee
	}
}
