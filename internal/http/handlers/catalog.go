package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const maxSuggestions = 50

// ViewMemory keeps the last browse view per session key.
type ViewMemory interface {
	LastView(key string) (catalog.View, bool)
	RememberView(key string, v catalog.View)
}

type CatalogHandler struct {
	store *catalog.Store
	views ViewMemory
}

// NewCatalogHandler builds the catalog routes. views may be nil, in which
// case every listing starts from the default view.
func NewCatalogHandler(store *catalog.Store, views ViewMemory) *CatalogHandler {
	return &CatalogHandler{store: store, views: views}
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := make([]string, 0, len(catalog.Categories)+1)
	cats = append(cats, catalog.CategoryAll)
	cats = append(cats, catalog.Categories...)
	writeJSON(w, http.StatusOK, dto.CategoriesResponse{Categories: cats})
}

// ListProducts filters the cached catalog and returns one page of it. The
// session's previous view is the starting point: changed criteria go back
// to page 1, a new page size keeps the first visible item, and an explicit
// page is honoured only while the criteria stay the same.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.Products(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := session.FromContext(r.Context()).Key
	view, remembered := h.lastView(key)

	q := r.URL.Query()
	criteria := catalog.ParseCriteria(q.Get("category"), q.Get("q"), q.Get("min_price"), q.Get("max_price"), q.Get("rating"))
	sameCriteria := criteria == view.Criteria
	view = view.WithCriteria(criteria)
	if q.Has("page_size") {
		view = view.WithPageSize(queryInt(r, "page_size", catalog.DefaultPageSize))
	}
	if q.Has("page") && (sameCriteria || !remembered) {
		view = view.WithPage(queryInt(r, "page", 1))
	}

	page := catalog.Paginate(catalog.Filter(products, view.Criteria), view.PageSize, view.Page)
	view.Page = page.Number
	if h.views != nil {
		h.views.RememberView(key, view)
	}

	writeJSON(w, http.StatusOK, dto.ProductsResponse{
		Page:    page,
		Filters: dto.NewFiltersView(view.Criteria),
	})
}

func (h *CatalogHandler) lastView(key string) (catalog.View, bool) {
	if h.views == nil {
		return catalog.DefaultView(), false
	}
	if v, ok := h.views.LastView(key); ok {
		return v, true
	}
	return catalog.DefaultView(), false
}

func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.Products(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", catalog.DefaultSuggestionLimit)
	if limit > maxSuggestions {
		limit = maxSuggestions
	}
	writeJSON(w, http.StatusOK, dto.SuggestionsResponse{
		Query: query,
		Items: catalog.Suggest(products, query, limit),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "products.get", "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, ok, err := h.store.Lookup(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, apperr.NotFound("products.get", "Product not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
