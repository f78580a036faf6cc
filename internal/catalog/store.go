package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source fetches the full product list from the backend.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Store holds the catalog fetched once from the backend. Filtering and
// suggestions read the in-memory copy; only Refresh goes back to the source.
type Store struct {
	src    Source
	logger *zap.Logger

	loadMu sync.Mutex // serializes fetches

	mu       sync.RWMutex
	products []Product
	loaded   bool
	loadedAt time.Time
}

func NewStore(src Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{src: src, logger: logger}
}

// Products returns a copy of the catalog, fetching it on first use. A failed
// fetch is not cached; the next call tries again.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	if ps, ok := s.snapshot(); ok {
		return ps, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another caller may have loaded while we waited.
	if ps, ok := s.snapshot(); ok {
		return ps, nil
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	ps, _ := s.snapshot()
	return ps, nil
}

// Refresh re-fetches the catalog. On failure the previous copy is kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

// Lookup finds a product in the cached catalog.
func (s *Store) Lookup(ctx context.Context, id int64) (Product, bool, error) {
	ps, err := s.Products(ctx)
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) snapshot() ([]Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, false
	}
	return slices.Clone(s.products), true
}

func (s *Store) load(ctx context.Context) error {
	ps, err := s.src.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s.mu.Lock()
	s.products = ps
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("catalog loaded", zap.Int("products", len(ps)))
	return nil
}
