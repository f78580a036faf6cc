package dto

import (
	"math"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// FiltersView echoes the criteria that produced a page. An unbounded
// max price renders as null.
type FiltersView struct {
	Category string   `json:"category"`
	Query    string   `json:"q"`
	MinPrice float64  `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Rating   int      `json:"rating"`
}

func NewFiltersView(c catalog.Criteria) FiltersView {
	v := FiltersView{
		Category: c.Category,
		Query:    c.Query,
		MinPrice: c.MinPrice,
		Rating:   c.Rating,
	}
	if !math.IsInf(c.MaxPrice, 1) {
		ceiling := c.MaxPrice
		v.MaxPrice = &ceiling
	}
	return v
}

type ProductsResponse struct {
	catalog.Page[catalog.Product]
	Filters FiltersView `json:"filters"`
}

type SuggestionsResponse struct {
	Query string            `json:"q"`
	Items []catalog.Product `json:"items"`
}
