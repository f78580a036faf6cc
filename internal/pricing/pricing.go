// Package pricing computes cart totals: subtotal, coupon discount, a flat tax
// and the grand total. Amounts are decimals rounded to cents for display.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DiscountCode is the only coupon the storefront recognizes.
	DiscountCode = "DISCOUNT10"
	// DefaultTax is the flat tax added to every cart. It is a placeholder
	// carried over from the storefront UI, not jurisdiction-based tax.
	DefaultTax = 14.0
)

var discountRate = decimal.RequireFromString("0.10")

type Line struct {
	UnitPrice float64
	Quantity  int
}

type Quote struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	CouponCode    string
	CouponApplied bool
}

// Calculator prices carts with a configured flat tax.
type Calculator struct {
	tax     decimal.Decimal
	coupons map[string]decimal.Decimal
}

func NewCalculator(tax float64) *Calculator {
	return &Calculator{
		tax: decimal.NewFromFloat(tax),
		coupons: map[string]decimal.Decimal{
			DiscountCode: discountRate,
		},
	}
}

// Tax returns the flat tax the calculator applies.
func (c *Calculator) Tax() decimal.Decimal { return c.tax }

// Price computes the quote for lines. An unknown or empty coupon yields a
// zero discount. The total is not floored at zero.
func (c *Calculator) Price(lines []Line, couponCode string) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	code := NormalizeCoupon(couponCode)
	discount := decimal.Zero
	rate, ok := c.coupons[code]
	if ok {
		discount = subtotal.Mul(rate).Round(2)
	}

	return Quote{
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           c.tax,
		Total:         subtotal.Sub(discount).Add(c.tax),
		CouponCode:    code,
		CouponApplied: ok,
	}
}

// Price prices lines with DefaultTax.
func Price(lines []Line, couponCode string) Quote {
	return NewCalculator(DefaultTax).Price(lines, couponCode)
}

// NormalizeCoupon trims and upper-cases a coupon code.
func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
