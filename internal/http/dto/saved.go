package dto

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ephemeral"
)

type SavedListResponse struct {
	Items []ephemeral.SavedItem `json:"items"`
}

type SaveForLaterResponse struct {
	Saved ephemeral.SavedItem `json:"saved"`
	Cart  []cart.Line         `json:"cart"`
}
