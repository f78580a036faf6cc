package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

type CartHandler struct {
	cart     *cart.Session
	pricer   *pricing.Calculator
	checkout *checkout.Service
}

func NewCartHandler(c *cart.Session, pricer *pricing.Calculator, co *checkout.Service) *CartHandler {
	return &CartHandler{cart: c, pricer: pricer, checkout: co}
}

func (h *CartHandler) render(w http.ResponseWriter, status int, lines []cart.Line, coupon string) {
	writeJSON(w, status, dto.CartResponse{
		Items: lines,
		Quote: dto.NewQuoteView(h.pricer.Price(cart.PricingLines(lines), coupon)),
	})
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, lines, r.URL.Query().Get("coupon"))
}

func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := h.pricer.Price(cart.PricingLines(lines), r.URL.Query().Get("coupon"))
	writeJSON(w, http.StatusOK, dto.NewQuoteView(q))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := decodeJSON(r, "cart.add", &req); err != nil {
		writeError(w, r, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	lines, err := h.cart.Add(r.Context(), req.ProductID, qty)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, http.StatusCreated, lines, "")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathInt64(r, "cart.update", "lineID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateCartItemRequest
	if err := decodeJSON(r, "cart.update", &req); err != nil {
		writeError(w, r, err)
		return
	}

	lines, err := h.cart.UpdateQuantity(r.Context(), lineID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, lines, "")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathInt64(r, "cart.remove", "lineID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lines, err := h.cart.Remove(r.Context(), lineID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, lines, "")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.Clear(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, lines, "")
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := decodeJSON(r, "checkout", &req); err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.checkout.Checkout(r.Context(), req.Coupon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCheckoutResponse(receipt))
}
