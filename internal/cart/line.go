package cart

import (
	"encoding/json"
	"io"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

// Line is one cart entry keyed by the backend-assigned ID, with the product
// fields the backend joins in for display.
type Line struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Title     string   `json:"title"`
	Price     float64  `json:"current_price"`
	OldPrice  *float64 `json:"old_price,omitempty"`
	Image     string   `json:"image"`
	Details   string   `json:"details,omitempty"`
}

// wireLine accepts every field-name variant cart backends are known to
// send.
type wireLine struct {
	ID                int64    `json:"id"`
	ProductID         *int64   `json:"product_id"`
	ProductIDCamel    *int64   `json:"productId"`
	Quantity          *int     `json:"quantity"`
	Title             *string  `json:"title"`
	Name              *string  `json:"name"`
	CurrentPrice      *float64 `json:"current_price"`
	CurrentPriceCamel *float64 `json:"currentPrice"`
	Price             *float64 `json:"price"`
	OldPrice          *float64 `json:"old_price"`
	OldPriceCamel     *float64 `json:"oldPrice"`
	Image             *string  `json:"image"`
	Description       *string  `json:"description"`
	Details           *string  `json:"details"`
}

// UnmarshalJSON normalizes backend rows into the canonical Line shape.
func (l *Line) UnmarshalJSON(b []byte) error {
	var w wireLine
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*l = Line{
		ID:        w.ID,
		ProductID: first(w.ProductID, w.ProductIDCamel),
		Quantity:  1,
		Title:     "Product",
		Price:     first(w.CurrentPrice, w.CurrentPriceCamel, w.Price),
		Image:     first(w.Image),
		Details:   first(w.Description, w.Details),
	}
	if w.Quantity != nil {
		l.Quantity = *w.Quantity
	}
	if t := first(w.Title, w.Name); t != "" {
		l.Title = t
	}
	if w.OldPrice != nil {
		l.OldPrice = w.OldPrice
	} else {
		l.OldPrice = w.OldPriceCamel
	}
	return nil
}

func first[T any](vs ...*T) T {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	var zero T
	return zero
}

// DecodeLines reads a JSON array of backend cart rows. A body that is not an
// array (e.g. null) decodes to an empty cart.
func DecodeLines(r io.Reader) ([]Line, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || raw[0] != '[' {
		return []Line{}, nil
	}
	lines := []Line{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// PricingLines converts cart lines into pricing input.
func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.Line{UnitPrice: l.Price, Quantity: l.Quantity})
	}
	return out
}
