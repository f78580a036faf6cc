package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/backend/store"
)

// Repository is the persistence the handlers need. *store.Repository and
// *store.Memory both satisfy it.
type Repository interface {
	ListProducts(ctx context.Context) ([]store.Product, error)
	GetProduct(ctx context.Context, id int64) (store.Product, error)
	CreateProduct(ctx context.Context, p store.Product) (int64, error)
	UpdateProduct(ctx context.Context, id int64, p store.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListCart(ctx context.Context, owner string) ([]store.CartItem, error)
	AddToCart(ctx context.Context, owner string, productID int64, quantity int) (bool, error)
	UpdateCartItem(ctx context.Context, owner string, id int64, quantity int) error
	RemoveCartItem(ctx context.Context, owner string, id int64) error
	ClearCart(ctx context.Context, owner string) (int64, error)
}

const ownerHeader = "X-User-Id"

var requiredProductFields = []string{"title", "description", "current_price", "image", "category"}

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.internalError(w, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		h.productError(w, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	id, err := h.repo.CreateProduct(r.Context(), p)
	if err != nil {
		h.internalError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Product added successfully", "id": id})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	if err := h.repo.UpdateProduct(r.Context(), id, p); err != nil {
		h.productError(w, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		h.productError(w, "delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListCart(r.Context(), owner(r))
	if err != nil {
		h.internalError(w, "list cart", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 || req.Quantity == 0 {
		writeError(w, http.StatusBadRequest, "product_id and quantity are required")
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	merged, err := h.repo.AddToCart(r.Context(), owner(r), req.ProductID, req.Quantity)
	if err != nil {
		h.productError(w, "add to cart", err)
		return
	}
	msg := "Product added to cart successfully."
	if merged {
		msg = "Product quantity updated in cart."
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "Valid quantity is required")
		return
	}
	if err := h.repo.UpdateCartItem(r.Context(), owner(r), id, req.Quantity); err != nil {
		h.cartError(w, "update cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart item updated successfully"})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.RemoveCartItem(r.Context(), owner(r), id); err != nil {
		h.cartError(w, "remove cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// ClearCart empties the caller's cart atomically.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.ClearCart(r.Context(), owner(r))
	if err != nil {
		h.internalError(w, "clear cart", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cart cleared", "removed": n})
}

func owner(r *http.Request) string {
	return r.Header.Get(ownerHeader)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

// decodeProduct requires every product field the storefront shows to be
// present in the body; optional counters default to zero.
func decodeProduct(w http.ResponseWriter, r *http.Request) (store.Product, bool) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return store.Product{}, false
	}
	for _, k := range requiredProductFields {
		v, ok := raw[k]
		if !ok || string(v) == "null" {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return store.Product{}, false
		}
	}

	body, _ := json.Marshal(raw)
	var p store.Product
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product fields")
		return store.Product{}, false
	}
	p.ID = 0
	return p, true
}

func (h *Handler) productError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.internalError(w, op, err)
}

func (h *Handler) cartError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	h.internalError(w, op, err)
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
