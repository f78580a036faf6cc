package handlers

import (
	"mime"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/admin"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

// maxProductBody caps a product upload in either encoding.
const maxProductBody = 8 << 20

type AdminHandler struct{ svc *admin.Service }

func NewAdminHandler(svc *admin.Service) *AdminHandler { return &AdminHandler{svc: svc} }

// readProduct accepts multipart/form-data or JSON.
func readProduct(w http.ResponseWriter, r *http.Request) (admin.ProductInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return admin.DecodeMultipart(r)
	}
	return admin.DecodeJSON(r.Body)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := readProduct(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreateProductResponse{Message: "Product added successfully", ID: id})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "admin.update", "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := readProduct(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Update(r.Context(), id, in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Product updated successfully"})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "admin.delete", "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

func (h *AdminHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RefreshCatalog(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Catalog refreshed"})
}
