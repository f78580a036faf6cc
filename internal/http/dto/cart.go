package dto

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

// QuoteView renders a quote in currency units rounded to cents.
type QuoteView struct {
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	Display       Amounts `json:"display"`
	CouponCode    string  `json:"coupon_code,omitempty"`
	CouponApplied bool    `json:"coupon_applied"`
}

// Amounts are the same figures formatted with two decimals.
type Amounts struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func NewQuoteView(q pricing.Quote) QuoteView {
	return QuoteView{
		Subtotal: q.Subtotal.Round(2).InexactFloat64(),
		Discount: q.Discount.Round(2).InexactFloat64(),
		Tax:      q.Tax.Round(2).InexactFloat64(),
		Total:    q.Total.Round(2).InexactFloat64(),
		Display: Amounts{
			Subtotal: q.Subtotal.StringFixed(2),
			Discount: q.Discount.StringFixed(2),
			Tax:      q.Tax.StringFixed(2),
			Total:    q.Total.StringFixed(2),
		},
		CouponCode:    q.CouponCode,
		CouponApplied: q.CouponApplied,
	}
}

type CartResponse struct {
	Items []cart.Line `json:"items"`
	Quote QuoteView   `json:"quote"`
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	Coupon string `json:"coupon"`
}

type CheckoutResponse struct {
	OrderID  string      `json:"order_id"`
	Items    []cart.Line `json:"items"`
	Quote    QuoteView   `json:"quote"`
	PlacedAt time.Time   `json:"placed_at"`
}

func NewCheckoutResponse(r checkout.Receipt) CheckoutResponse {
	return CheckoutResponse{
		OrderID:  r.OrderID,
		Items:    r.Lines,
		Quote:    NewQuoteView(r.Quote),
		PlacedAt: r.PlacedAt,
	}
}
