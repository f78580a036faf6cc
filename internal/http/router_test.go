package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/admin"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ephemeral"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

const productsJSON = `[
 {"id":1,"title":"Red Shoe","description":"d","category":"Clothes and wear","current_price":25,"star_count":4,"image":"aW1n"},
 {"id":2,"title":"Blue Hat","description":"d","category":"Clothes and wear","current_price":10,"star_count":3,"image":"aW1n"},
 {"id":3,"title":"Gaming Laptop","description":"d","category":"Computer and tech","current_price":1200,"star_count":5,"image":"aW1n"}
]`

// stubBackend serves the product and cart endpoints and records every
// request it receives.
type stubBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	cartBody string
}

func (s *stubBackend) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func newStubServer(t *testing.T) (*httptest.Server, *stubBackend) {
	t.Helper()
	stub := &stubBackend{cartBody: `[{"id":7,"product_id":1,"quantity":2,"title":"Red Shoe","current_price":25,"image":"aW1n"},{"id":8,"product_id":2,"quantity":1,"title":"Blue Hat","current_price":10,"image":"aW1n"}]`}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.requests = append(stub.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		cartBody := stub.cartBody
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/products":
			_, _ = w.Write([]byte(productsJSON))
		case r.Method == http.MethodGet && r.URL.Path == "/cart":
			_, _ = w.Write([]byte(cartBody))
		case r.Method == http.MethodPost && r.URL.Path == "/cart/add":
			_, _ = w.Write([]byte(`{"message":"Item added to cart"}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/cart/update/"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Cart item not found"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"unexpected"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, stub
}

func newRouterWithBaseURL(baseURL string) http.Handler {
	return newRouterWithConfig(baseURL, config.Config{
		CORSAllowOrigins:     []string{"*"},
		TrustIdentityHeaders: true,
	})
}

func newRouterWithConfig(baseURL string, cfg config.Config) http.Handler {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	base := clients.NewClient("backend", baseURL, httpClient)
	products := clients.NewProductsClient(base)

	store := catalog.NewStore(products, nil)
	session := cart.NewSession(clients.NewCartClient(base), nil)
	pricer := pricing.NewCalculator(pricing.DefaultTax)
	sessions := ephemeral.NewStore(time.Hour)

	return NewRouter(Deps{
		Cfg:      cfg,
		Catalog:  store,
		Cart:     session,
		Pricer:   pricer,
		Checkout: checkout.NewService(session, pricer, nil, nil),
		Shelf:    ephemeral.NewShelf(sessions, session),
		Views:    sessions,
		Admin:    admin.NewService(products, store, nil),
		HealthProbes: []clients.HealthProbe{
			{Name: "backend", Client: base, Path: "/products"},
		},
	})
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestHealthRoute(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "storefront-bff", body["service"])
}

func TestUpstreamHealth(t *testing.T) {
	srv, _ := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/upstreams", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Status   string                 `json:"status"`
		Upstream []clients.HealthResult `json:"upstream"`
	}
	decode(t, rr, &body)
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Upstream, 1)
	assert.True(t, body.Upstream[0].OK)
}

func TestCorrelationIDEchoAndGeneration(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	reqWith := httptest.NewRequest(http.MethodGet, "/health", nil)
	reqWith.Header.Set(middleware.HeaderCorrelationID, "abc")
	rrWith := httptest.NewRecorder()
	router.ServeHTTP(rrWith, reqWith)
	assert.Equal(t, "abc", rrWith.Header().Get(middleware.HeaderCorrelationID))

	rrGen := httptest.NewRecorder()
	router.ServeHTTP(rrGen, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rrGen.Header().Get(middleware.HeaderCorrelationID))
}

func TestCORSPreflight(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	srv, _ := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products?q=shoe&category=Clothes+and+wear&max_price=0", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Items      []catalog.Product `json:"items"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalItems int               `json:"total_items"`
		Filters    struct {
			MaxPrice *float64 `json:"max_price"`
		} `json:"filters"`
	}
	decode(t, rr, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Red Shoe", body.Items[0].Title)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, catalog.DefaultPageSize, body.PageSize)
	assert.Equal(t, 1, body.TotalItems)
	assert.Nil(t, body.Filters.MaxPrice)
}

// newCatalogServer serves n products, the first automobiles of them in
// "Automobiles" and the rest in "Home interiors".
func newCatalogServer(t *testing.T, n, automobiles int) *httptest.Server {
	t.Helper()
	products := make([]catalog.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := "Home interiors"
		if i <= automobiles {
			category = "Automobiles"
		}
		products = append(products, catalog.Product{
			ID: int64(i), Title: fmt.Sprintf("Item %02d", i), Description: "d",
			Category: category, CurrentPrice: float64(i), StarCount: 3, Image: "aW1n",
		})
	}
	raw, err := json.Marshal(products)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type pageBody struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func browse(t *testing.T, router http.Handler, sessionID, query string) pageBody {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/products"+query, nil)
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body pageBody
	decode(t, rr, &body)
	return body
}

func TestBrowseViewIsRememberedPerSession(t *testing.T) {
	router := newRouterWithBaseURL(newCatalogServer(t, 30, 12).URL)

	assert.Equal(t, 3, browse(t, router, "tab-1", "?page=3").Page)
	assert.Equal(t, 3, browse(t, router, "tab-1", "").Page, "same criteria keep the position")
	assert.Equal(t, 1, browse(t, router, "tab-2", "").Page, "sessions do not share a view")
	assert.Equal(t, 1, browse(t, router, "", "").Page)

	got := browse(t, router, "tab-1", "?category=Automobiles")
	assert.Equal(t, 1, got.Page, "new criteria start over")
	assert.Equal(t, 2, got.TotalPages)

	got = browse(t, router, "tab-1", "?category=Home+interiors&page=2")
	assert.Equal(t, 1, got.Page, "page is ignored when the criteria change")
}

func TestBrowsePageSizeChangeKeepsPosition(t *testing.T) {
	router := newRouterWithBaseURL(newCatalogServer(t, 30, 0).URL)

	assert.Equal(t, 3, browse(t, router, "tab-1", "?page=3").Page)

	got := browse(t, router, "tab-1", "?page_size=20")
	assert.Equal(t, 20, got.PageSize)
	assert.Equal(t, 2, got.Page, "item 21 is on page 2 at 20 per page")

	got = browse(t, router, "tab-1", "")
	assert.Equal(t, 20, got.PageSize)
	assert.Equal(t, 2, got.Page)
}

func TestProductsAreFetchedOnce(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	for _, path := range []string{"/api/products", "/api/products/suggestions?q=a", "/api/products/3"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
	}

	assert.Len(t, stub.recorded(), 1)
}

func TestGetUnknownProduct(t *testing.T) {
	srv, _ := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/99", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetCartWithCoupon(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/cart?coupon=discount10", nil)
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderCorrelationID, "cid-7")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Items []cart.Line `json:"items"`
		Quote struct {
			Subtotal float64 `json:"subtotal"`
			Discount float64 `json:"discount"`
			Total    float64 `json:"total"`
			Display  struct {
				Total string `json:"total"`
			} `json:"display"`
			CouponApplied bool `json:"coupon_applied"`
		} `json:"quote"`
	}
	decode(t, rr, &body)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, 60.0, body.Quote.Subtotal)
	assert.Equal(t, 6.0, body.Quote.Discount)
	assert.Equal(t, 68.0, body.Quote.Total)
	assert.Equal(t, "68.00", body.Quote.Display.Total)
	assert.True(t, body.Quote.CouponApplied)

	reqs := stub.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "u-1", reqs[0].Header.Get(middleware.HeaderUserID))
	assert.Equal(t, "cid-7", reqs[0].Header.Get(middleware.HeaderCorrelationID))
}

func TestAddToCartRequiresSession(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":1}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, "auth_required", body["kind"])
	assert.Empty(t, stub.recorded())
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":1}`))
	req.Header.Set(middleware.HeaderUserID, "u-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reqs := stub.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/cart/add", reqs[0].Path)
	assert.JSONEq(t, `{"product_id":1,"quantity":1}`, reqs[0].Body)
	assert.Equal(t, "/cart", reqs[1].Path)
}

func TestUpdateQuantityZeroMakesNoUpstreamCall(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodPut, "/api/cart/items/7", strings.NewReader(`{"quantity":0}`))
	req.Header.Set(middleware.HeaderUserID, "u-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, stub.recorded())
}

func TestUpdateUnknownLineIsNotFound(t *testing.T) {
	srv, _ := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodPut, "/api/cart/items/99", strings.NewReader(`{"quantity":2}`))
	req.Header.Set(middleware.HeaderUserID, "u-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, "Cart item not found", body["error"])
}

func TestCheckoutRequiresSession(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil)
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderUserRole, "customer")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, stub.recorded())
}

func TestIdentityHeadersIgnoredByDefault(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithConfig(srv.URL, config.Config{CORSAllowOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil)
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderUserRole, "admin")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, stub.recorded())
}

func TestIdentityHeadersIgnoredWhenTokensConfigured(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithConfig(srv.URL, config.Config{
		CORSAllowOrigins:     []string{"*"},
		JWTSecret:            "s3cret",
		TrustIdentityHeaders: true,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil)
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderUserRole, "admin")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, stub.recorded())
}

func TestCORSRejectsIdentityHeaders(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/products/1", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	req.Header.Set("Access-Control-Request-Headers", middleware.HeaderUserRole)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminMultipartBodyIsCapped(t *testing.T) {
	srv, stub := newStubServer(t)
	router := newRouterWithBaseURL(srv.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title": "Red Shoe", "description": "d", "category": "Clothes and wear",
		"current_price": "25", "rating": "4", "star_count": "4", "orders": "1",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.WriteField("notes", strings.Repeat("x", 9<<20)))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/products/1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.HeaderUserID, "u-1")
	req.Header.Set(middleware.HeaderUserRole, "admin")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "too large")
	assert.Empty(t, stub.recorded())
}

func TestUnknownRoute(t *testing.T) {
	router := newRouterWithBaseURL("http://example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.HeaderCorrelationID))
}
