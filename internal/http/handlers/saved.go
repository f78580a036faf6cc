package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ephemeral"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

type SavedHandler struct {
	shelf  *ephemeral.Shelf
	pricer *pricing.Calculator
}

func NewSavedHandler(shelf *ephemeral.Shelf, pricer *pricing.Calculator) *SavedHandler {
	return &SavedHandler{shelf: shelf, pricer: pricer}
}

func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SavedListResponse{Items: h.shelf.List(r.Context())})
}

func (h *SavedHandler) SaveForLater(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathInt64(r, "saved.save", "lineID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, lines, err := h.shelf.SaveForLater(r.Context(), lineID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SaveForLaterResponse{Saved: item, Cart: lines})
}

func (h *SavedHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.shelf.MoveToCart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CartResponse{
		Items: lines,
		Quote: dto.NewQuoteView(h.pricer.Price(cart.PricingLines(lines), "")),
	})
}

func (h *SavedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shelf.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
