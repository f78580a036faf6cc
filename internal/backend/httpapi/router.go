package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", h.Health)

	r.Get("/products", h.ListProducts)
	r.Get("/product/{id}", h.GetProduct)
	r.Post("/add_product", h.AddProduct)
	r.Put("/update_product/{id}", h.UpdateProduct)
	r.Delete("/delete_product/{id}", h.DeleteProduct)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/add", h.AddToCart)
		r.Put("/update/{id}", h.UpdateCartItem)
		r.Delete("/remove/{id}", h.RemoveCartItem)
	})

	return r
}
