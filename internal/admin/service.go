// Package admin implements product management for signed-in admins. Every
// mutation is forwarded to the backend and followed by a catalog refresh.
package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Products is the backend's product resource.
type Products interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	CreateProduct(ctx context.Context, in clients.ProductPayload) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in clients.ProductPayload) error
	DeleteProduct(ctx context.Context, id int64) error
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Service struct {
	products Products
	catalog  Refresher
	logger   *zap.Logger
}

func NewService(products Products, catalog Refresher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, catalog: catalog, logger: logger}
}

func authorize(ctx context.Context, op string) error {
	s := session.FromContext(ctx)
	if !s.Authenticated() {
		return apperr.AuthRequired(op)
	}
	if !s.IsAdmin() {
		return apperr.Forbidden(op, "admin role required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (int64, error) {
	if err := authorize(ctx, "admin.create"); err != nil {
		return 0, err
	}
	if err := in.Validate(true); err != nil {
		return 0, err
	}

	id, err := s.products.CreateProduct(ctx, payloadFrom(in))
	if err != nil {
		return 0, err
	}
	s.logger.Info("product created", zap.Int64("product_id", id), zap.String("title", in.Title))
	s.refresh(ctx)
	return id, nil
}

// Update replaces a product. Without a new image the stored one is kept.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) error {
	if err := authorize(ctx, "admin.update"); err != nil {
		return err
	}
	if err := in.Validate(false); err != nil {
		return err
	}

	if in.Image == "" {
		current, err := s.products.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		in.Image = current.Image
	}

	if err := s.products.UpdateProduct(ctx, id, payloadFrom(in)); err != nil {
		return err
	}
	s.logger.Info("product updated", zap.Int64("product_id", id))
	s.refresh(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := authorize(ctx, "admin.delete"); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	s.refresh(ctx)
	return nil
}

// RefreshCatalog forces the catalog to re-fetch. Unlike the refresh after
// a mutation, its failure is returned.
func (s *Service) RefreshCatalog(ctx context.Context) error {
	if err := authorize(ctx, "admin.refresh"); err != nil {
		return err
	}
	return s.catalog.Refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh after admin change failed", zap.Error(err))
	}
}

func payloadFrom(in ProductInput) clients.ProductPayload {
	return clients.ProductPayload{
		Title:        in.Title,
		Description:  in.Description,
		CurrentPrice: in.CurrentPrice,
		OldPrice:     in.OldPrice,
		Rating:       in.Rating,
		StarCount:    in.StarCount,
		Orders:       in.Orders,
		Image:        in.Image,
		Category:     in.Category,
	}
}
