package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceScenarioWithCoupon(t *testing.T) {
	lines := []Line{{UnitPrice: 25, Quantity: 2}, {UnitPrice: 10, Quantity: 1}}

	q := NewCalculator(14.0).Price(lines, "DISCOUNT10")

	assert.True(t, q.Subtotal.Equal(d("60.00")), "subtotal %s", q.Subtotal)
	assert.True(t, q.Discount.Equal(d("6.00")), "discount %s", q.Discount)
	assert.True(t, q.Tax.Equal(d("14")), "tax %s", q.Tax)
	assert.True(t, q.Total.Equal(d("68.00")), "total %s", q.Total)
	assert.True(t, q.CouponApplied)
	assert.Equal(t, DiscountCode, q.CouponCode)
}

func TestPriceCouponMatching(t *testing.T) {
	lines := []Line{{UnitPrice: 19.99, Quantity: 3}}

	tests := map[string]struct {
		code         string
		wantDiscount string
		wantApplied  bool
	}{
		"exact":              {code: "DISCOUNT10", wantDiscount: "6.00", wantApplied: true},
		"lower case":         {code: "discount10", wantDiscount: "6.00", wantApplied: true},
		"surrounding blanks": {code: "  Discount10 \t", wantDiscount: "6.00", wantApplied: true},
		"wrong code":         {code: "WRONG", wantDiscount: "0", wantApplied: false},
		"empty":              {code: "", wantDiscount: "0", wantApplied: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q := Price(lines, tc.code)
			// 59.97 * 0.10 = 5.997 -> 6.00
			require.True(t, q.Discount.Equal(d(tc.wantDiscount)), "discount %s", q.Discount)
			require.Equal(t, tc.wantApplied, q.CouponApplied)
		})
	}
}

func TestPriceDiscountRoundsToCents(t *testing.T) {
	tests := map[string]struct {
		lines []Line
		want  string
	}{
		"round half up":   {lines: []Line{{UnitPrice: 0.45, Quantity: 1}}, want: "0.05"},
		"round down":      {lines: []Line{{UnitPrice: 12.34, Quantity: 1}}, want: "1.23"},
		"many quantities": {lines: []Line{{UnitPrice: 3.33, Quantity: 7}}, want: "2.33"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q := Price(tc.lines, DiscountCode)
			require.True(t, q.Discount.Equal(d(tc.want)), "got %s want %s", q.Discount, tc.want)
		})
	}
}

func TestPriceEmptyCartStillCarriesTax(t *testing.T) {
	q := NewCalculator(14.0).Price(nil, "DISCOUNT10")
	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Discount.IsZero())
	assert.True(t, q.Total.Equal(d("14")))
}

func TestPriceConfigurableTax(t *testing.T) {
	q := NewCalculator(0).Price([]Line{{UnitPrice: 10, Quantity: 2}}, "")
	assert.True(t, q.Total.Equal(d("20")))

	q = NewCalculator(2.5).Price([]Line{{UnitPrice: 10, Quantity: 2}}, "WRONG")
	assert.True(t, q.Total.Equal(d("22.5")))
	assert.True(t, NewCalculator(2.5).Tax().Equal(d("2.5")))
}
