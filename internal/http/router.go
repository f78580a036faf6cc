package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/admin"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ephemeral"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

type Deps struct {
	Logger *zap.Logger
	Cfg    config.Config

	Catalog  *catalog.Store
	Cart     *cart.Session
	Pricer   *pricing.Calculator
	Checkout *checkout.Service
	Shelf    *ephemeral.Shelf
	Admin    *admin.Service

	// Views remembers each session's browse position. Nil keeps listing
	// stateless.
	Views handlers.ViewMemory

	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			middleware.HeaderCorrelationID, middleware.HeaderSessionID,
		},
		ExposedHeaders: []string{middleware.HeaderCorrelationID},
		MaxAge:         300,
	}))
	r.Use(middleware.Identity(middleware.IdentityOptions{
		JWTSecret:    []byte(d.Cfg.JWTSecret),
		TrustHeaders: d.Cfg.TrustIdentityHeaders,
	}))

	health := &handlers.HealthHandler{Probes: d.HealthProbes}
	r.Get("/health", health.Storefront)
	r.Get("/health/upstreams", health.Upstreams)

	r.Route("/api", func(r chi.Router) {
		cat := handlers.NewCatalogHandler(d.Catalog, d.Views)
		r.Get("/categories", cat.Categories)
		r.Get("/products", cat.ListProducts)
		r.Get("/products/suggestions", cat.Suggestions)
		r.Get("/products/{id}", cat.GetProduct)

		ch := handlers.NewCartHandler(d.Cart, d.Pricer, d.Checkout)
		saved := handlers.NewSavedHandler(d.Shelf, d.Pricer)
		r.Get("/cart", ch.Get)
		r.Get("/cart/quote", ch.Quote)
		r.Post("/cart/items", ch.AddItem)
		r.Put("/cart/items/{lineID}", ch.UpdateItem)
		r.Delete("/cart/items/{lineID}", ch.RemoveItem)
		r.Delete("/cart", ch.Clear)
		r.Post("/cart/items/{lineID}/save", saved.SaveForLater)
		r.With(middleware.RequireSession).Post("/cart/checkout", ch.Checkout)

		r.Get("/saved", saved.List)
		r.Post("/saved/{id}/move-to-cart", saved.MoveToCart)
		r.Delete("/saved/{id}", saved.Delete)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			adm := handlers.NewAdminHandler(d.Admin)
			r.Post("/products", adm.CreateProduct)
			r.Put("/products/{id}", adm.UpdateProduct)
			r.Delete("/products/{id}", adm.DeleteProduct)
			r.Post("/catalog/refresh", adm.RefreshCatalog)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, apperr.NotFound("route", "route not found"))
	})

	return r
}
