package checkout

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrCouponNotFound = errors.New("coupon not found")

type CouponKind string

const (
	KindPercentage   CouponKind = "percentage"
	KindFixedAmount  CouponKind = "fixed"
	KindFreeShipping CouponKind = "shipping"
)

const (
	CodeSave10       = "SAVE10"
	CodeSave20       = "SAVE20"
	CodeFreeShipping = "FREESHIP"
	CodeOff250       = "OFF250"
)

// Coupon is an immutable catalog entry. Value is a fraction for percentage
// coupons, a currency amount for fixed coupons and unused for free shipping.
type Coupon struct {
	Code        string          `json:"code"`
	Kind        CouponKind      `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

// The OFF250 description mentions a minimum order; the discount does not enforce it.
var catalog = []Coupon{
	{Code: CodeSave10, Kind: KindPercentage, Value: decimal.RequireFromString("0.10"), Description: "10% off on your order"},
	{Code: CodeSave20, Kind: KindPercentage, Value: decimal.RequireFromString("0.20"), Description: "20% off on your order"},
	{Code: CodeFreeShipping, Kind: KindFreeShipping, Value: decimal.Zero, Description: "Free shipping on your order"},
	{Code: CodeOff250, Kind: KindFixedAmount, Value: decimal.NewFromInt(250), Description: "Flat ₹250 off on orders above ₹1000"},
}

// Catalog lists every coupon in display order.
func Catalog() []Coupon {
	out := make([]Coupon, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCoupon finds a coupon by exact, case-sensitive code.
func LookupCoupon(code string) (Coupon, bool) {
	for _, c := range catalog {
		if c.Code == code {
			return c, true
		}
	}
	return Coupon{}, false
}

// Discount is the amount taken off the order. Free shipping discounts nothing;
// its effect comes from being the applied code.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case KindPercentage:
		return subtotal.Mul(c.Value)
	case KindFixedAmount:
		return c.Value
	default:
		return decimal.Zero
	}
}

// Savings is what the customer would save with the coupon right now. For free
// shipping it is the flat shipping fee, which is what the coupon screen advertises.
func (c Coupon) Savings(subtotal decimal.Decimal, pricing Pricing) decimal.Decimal {
	if c.Kind == KindFreeShipping {
		return pricing.ShippingFee
	}
	return c.Discount(subtotal)
}

// CouponEngine records at most one applied coupon and the discount frozen at the
// moment it was applied.
type CouponEngine struct {
	code     string
	discount decimal.Decimal
}

func NewCouponEngine() *CouponEngine {
	return &CouponEngine{discount: decimal.Zero}
}

// Apply replaces any active coupon. The discount is computed from the given
// subtotal and does not follow later cart changes. Unknown codes leave the
// engine untouched and return ErrCouponNotFound.
func (e *CouponEngine) Apply(code string, subtotal decimal.Decimal) (Coupon, error) {
	c, ok := LookupCoupon(code)
	if !ok {
		return Coupon{}, ErrCouponNotFound
	}
	e.code = c.Code
	e.discount = c.Discount(subtotal)
	return c, nil
}

// Remove clears the applied coupon. Calling it with nothing applied is a no-op.
func (e *CouponEngine) Remove() {
	e.code = ""
	e.discount = decimal.Zero
}

func (e *CouponEngine) AppliedCode() string {
	return e.code
}

func (e *CouponEngine) Discount() decimal.Decimal {
	return e.discount
}

func (e *CouponEngine) Active() bool {
	return e.code != ""
}

// restore reinstates persisted state. Codes no longer in the catalog are dropped.
func (e *CouponEngine) restore(code string, discount decimal.Decimal) {
	if _, ok := LookupCoupon(code); !ok {
		e.Remove()
		return
	}
	e.code = code
	e.discount = discount
}
