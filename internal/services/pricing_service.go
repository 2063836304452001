package services

import (
	"math"

	"storefront-service/internal/models"
)

// Totals is the priced breakdown of a cart. All amounts are rounded to two
// decimals and the total is never negative.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	ShippingCost   float64 `json:"shippingCost"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// PricingService computes order money amounts. It is pure: no storage, no
// clock beyond what callers resolved already.
type PricingService interface {
	Subtotal(items []models.CartLine) float64
	Discount(coupon *models.Coupon, subtotal float64) float64
	Totals(items []models.CartLine, coupon *models.Coupon, shippingCharge float64) Totals
}

type pricingService struct{}

// NewPricingService creates the pricing calculator
func NewPricingService() PricingService {
	return &pricingService{}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums quantity times unit price across the cart
func (s *pricingService) Subtotal(items []models.CartLine) float64 {
	var subtotal float64
	for _, line := range items {
		subtotal += float64(line.Quantity) * line.UnitPrice
	}
	return roundMoney(subtotal)
}

// Discount computes the coupon discount against a subtotal. Percentage
// discounts respect the coupon's cap; no discount ever exceeds the subtotal.
func (s *pricingService) Discount(coupon *models.Coupon, subtotal float64) float64 {
	if coupon == nil || subtotal <= 0 {
		return 0
	}

	var discount float64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = coupon.DiscountValue
	default:
		return 0
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return roundMoney(discount)
}

// Totals prices the whole cart: subtotal minus discount plus shipping,
// clamped at zero.
func (s *pricingService) Totals(items []models.CartLine, coupon *models.Coupon, shippingCharge float64) Totals {
	subtotal := s.Subtotal(items)
	discount := s.Discount(coupon, subtotal)

	total := roundMoney(subtotal - discount + shippingCharge)
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		ShippingCost:   roundMoney(shippingCharge),
		DiscountAmount: discount,
		Total:          total,
	}
}
