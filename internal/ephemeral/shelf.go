package ephemeral

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Shelf moves items between the remote cart and the caller's saved list.
type Shelf struct {
	store *Store
	cart  *cart.Session
}

func NewShelf(store *Store, c *cart.Session) *Shelf {
	return &Shelf{store: store, cart: c}
}

func (s *Shelf) List(ctx context.Context) []SavedItem {
	return s.store.List(session.FromContext(ctx).Key)
}

// SaveForLater snapshots a cart line into the saved list and removes it
// from the cart. The remaining cart lines are returned with the saved item.
func (s *Shelf) SaveForLater(ctx context.Context, lineID int64) (SavedItem, []cart.Line, error) {
	key := session.FromContext(ctx).Key
	if key == "" {
		return SavedItem{}, nil, apperr.AuthRequired("saved.save")
	}

	line, err := s.cart.FindLine(ctx, lineID)
	if err != nil {
		return SavedItem{}, nil, err
	}
	item, err := s.store.Save(key, FromLine(line))
	if err != nil {
		return SavedItem{}, nil, err
	}

	lines, err := s.cart.Remove(ctx, lineID)
	if err != nil {
		_ = s.store.Delete(key, item.ID)
		return SavedItem{}, lines, err
	}
	return item, lines, nil
}

// MoveToCart adds a saved item back to the cart with quantity 1. If the
// add fails the item stays saved.
func (s *Shelf) MoveToCart(ctx context.Context, id string) ([]cart.Line, error) {
	key := session.FromContext(ctx).Key
	if key == "" {
		return nil, apperr.AuthRequired("saved.move")
	}

	item, err := s.store.Take(key, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.cart.Add(ctx, item.ProductID, 1)
	if err != nil {
		s.store.Restore(key, item)
		return nil, err
	}
	return lines, nil
}

func (s *Shelf) Delete(ctx context.Context, id string) error {
	key := session.FromContext(ctx).Key
	if key == "" {
		return apperr.NotFound("saved.delete", "saved item not found")
	}
	return s.store.Delete(key, id)
}
