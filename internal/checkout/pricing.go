package checkout

import (
	"github.com/shopspring/decimal"
)

// Pricing holds the store-wide constants used to derive cart totals.
type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPricing returns 18% GST, a flat 100 shipping fee and free shipping above 500.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.18"),
		ShippingFee:           decimal.NewFromInt(100),
		FreeShippingThreshold: decimal.NewFromInt(500),
	}
}

// Totals is the derived price breakdown of a ledger. It is never stored.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Shipping returns the shipping fee for a subtotal. The fee is waived when the
// subtotal is strictly above the threshold or FREESHIP is the applied coupon.
func (p Pricing) Shipping(subtotal decimal.Decimal, couponCode string) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) || couponCode == CodeFreeShipping {
		return decimal.Zero
	}
	return p.ShippingFee
}

// Tax applies the flat rate to the subtotal only; shipping is never taxed.
func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Compute derives the live cart totals.
func (p Pricing) Compute(subtotal decimal.Decimal, couponCode string, discount decimal.Decimal) Totals {
	shipping := p.Shipping(subtotal, couponCode)
	tax := p.Tax(subtotal)
	total := subtotal.Add(shipping).Add(tax).Sub(discount)

	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Discount:    discount,
		Total:       clampZero(total),
	}
}

// OrderTotal is the total recorded on an order: subtotal plus tax minus discount.
// Shipping is not part of it, unlike the live cart total.
func (p Pricing) OrderTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	return clampZero(subtotal.Add(p.Tax(subtotal)).Sub(discount))
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
