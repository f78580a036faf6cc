package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/admin"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ephemeral"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pricing"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", "storefront-bff"))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Base HTTP client (shared)
	sharedHTTP := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	backend := clients.NewClient("backend", cfg.BackendURL, sharedHTTP)
	products := clients.NewProductsClient(backend)

	store := catalog.NewStore(products, logger.Named("catalog"))
	cartSession := cart.NewSession(clients.NewCartClient(backend), logger.Named("cart"))
	pricer := pricing.NewCalculator(cfg.TaxAmount)

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	saved := ephemeral.NewStore(cfg.SessionTTL)
	go saved.RunSweeper(ctx, time.Minute, func(n int) {
		logger.Debug("expired storefront sessions", zap.Int("sessions", n))
	})

	switch {
	case cfg.TrustIdentityHeaders && cfg.JWTSecret != "":
		logger.Warn("TRUST_IDENTITY_HEADERS ignored because JWT_SECRET is set")
	case cfg.TrustIdentityHeaders:
		logger.Warn("trusting X-User-* headers, run only behind a gateway that strips them")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   logger,
		Cfg:      cfg,
		Catalog:  store,
		Cart:     cartSession,
		Pricer:   pricer,
		Checkout: checkout.NewService(cartSession, pricer, publisher, logger.Named("checkout")),
		Shelf:    ephemeral.NewShelf(saved, cartSession),
		Views:    saved,
		Admin:    admin.NewService(products, store, logger.Named("admin")),
		HealthProbes: []clients.HealthProbe{
			{Name: "backend", Client: backend, Path: "/products"},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

// newPublisher connects to RabbitMQ when RABBITMQ_URL is set and falls back
// to dropping events otherwise.
func newPublisher(cfg config.Config, logger *zap.Logger) (events.Publisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, checkout events are not published")
		return events.NewNoopPublisher(logger), func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewAMQPPublisher(conn, logger.Named("events"))
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return pub, func() {
		_ = pub.Close()
		_ = conn.Close()
	}, nil
}
