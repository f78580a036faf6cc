package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Criteria selects products from the catalog. The zero value is not the
// identity filter; use DefaultCriteria.
type Criteria struct {
	Category string
	Query    string
	MinPrice float64
	MaxPrice float64
	// Rating is an exact star_count match; 0 means any.
	Rating int
}

func DefaultCriteria() Criteria {
	return Criteria{
		Category: CategoryAll,
		MaxPrice: math.Inf(1),
	}
}

// ParseCriteria builds Criteria from raw request values. It never fails:
// malformed numbers fall back to the permissive bound.
func ParseCriteria(category, query, minPrice, maxPrice, rating string) Criteria {
	c := DefaultCriteria()
	if category = strings.TrimSpace(category); category != "" {
		c.Category = category
	}
	c.Query = query
	c.MinPrice = parseBound(minPrice, 0)
	c.MaxPrice = parseBound(maxPrice, math.Inf(1))
	if r, err := strconv.Atoi(strings.TrimSpace(rating)); err == nil && r > 0 {
		c.Rating = r
	}
	return c
}

// parseBound treats empty, unparsable and zero input as absent.
func parseBound(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || v == 0 {
		return fallback
	}
	return v
}

func (c Criteria) Matches(p Product) bool {
	if c.Category != CategoryAll && p.Category != c.Category {
		return false
	}
	if !TitleMatches(p.Title, c.Query) {
		return false
	}
	if p.CurrentPrice < c.MinPrice || p.CurrentPrice > c.MaxPrice {
		return false
	}
	if c.Rating != 0 && p.StarCount != c.Rating {
		return false
	}
	return true
}

// TitleMatches reports whether title contains query, ignoring case.
func TitleMatches(title, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// Filter returns the products matching c in input order.
func Filter(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
