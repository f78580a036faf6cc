// Package cart is the storefront's façade over the remote cart resource.
// Every mutation is followed by a re-fetch; the backend's list is the only
// state the storefront trusts.
package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Backend is the remote cart resource.
type Backend interface {
	ListCart(ctx context.Context) ([]Line, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartLine(ctx context.Context, lineID int64, quantity int) error
	RemoveCartLine(ctx context.Context, lineID int64) error
}

// ErrNotCleared reports that some lines survived a Clear.
var ErrNotCleared = errors.New("cart was not fully cleared")

type Session struct {
	backend Backend
	logger  *zap.Logger
}

func NewSession(backend Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{backend: backend, logger: logger}
}

func (s *Session) List(ctx context.Context) ([]Line, error) {
	lines, err := s.backend.ListCart(ctx)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Add puts quantity units of a product in the cart. It needs a signed-in
// session; the caller is expected to send the user to sign in otherwise.
func (s *Session) Add(ctx context.Context, productID int64, quantity int) ([]Line, error) {
	if !session.FromContext(ctx).Authenticated() {
		return nil, apperr.AuthRequired("cart.add")
	}
	if productID <= 0 {
		return nil, apperr.Validation("cart.add", "product_id is required")
	}
	if quantity < 1 {
		return nil, apperr.Validation("cart.add", "quantity must be at least 1")
	}

	if err := s.backend.AddToCart(ctx, productID, quantity); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are rejected
// without contacting the backend; removing a line is done with Remove.
func (s *Session) UpdateQuantity(ctx context.Context, lineID int64, quantity int) ([]Line, error) {
	if quantity < 1 {
		return nil, apperr.Validation("cart.update", "quantity must be at least 1")
	}
	if !session.FromContext(ctx).Authenticated() {
		return nil, apperr.AuthRequired("cart.update")
	}

	if err := s.backend.UpdateCartLine(ctx, lineID, quantity); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// Remove deletes a line. A line that is already gone counts as removed.
// The cart is always re-fetched; on failure the re-fetched lines are
// returned alongside the error.
func (s *Session) Remove(ctx context.Context, lineID int64) ([]Line, error) {
	if !session.FromContext(ctx).Authenticated() {
		return nil, apperr.AuthRequired("cart.remove")
	}

	removeErr := s.backend.RemoveCartLine(ctx, lineID)
	if errors.Is(removeErr, apperr.ErrNotFound) {
		removeErr = nil
	}

	lines, err := s.List(ctx)
	if err != nil {
		return nil, errors.Join(removeErr, err)
	}
	return lines, removeErr
}

// Clear removes every line with one request per line, in parallel. It is
// best effort: there is no rollback, and a partial failure is only reported
// once the re-fetch shows lines left behind.
func (s *Session) Clear(ctx context.Context) ([]Line, error) {
	if !session.FromContext(ctx).Authenticated() {
		return nil, apperr.AuthRequired("cart.clear")
	}

	lines, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	errs := make([]error, len(lines))
	var wg sync.WaitGroup
	wg.Add(len(lines))
	for i := range lines {
		go func(i int) {
			defer wg.Done()
			err := s.backend.RemoveCartLine(ctx, lines[i].ID)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				errs[i] = err
			}
		}(i)
	}
	wg.Wait()

	failed := errors.Join(errs...)
	if failed != nil {
		s.logger.Warn("cart clear: some removals failed", zap.Error(failed))
	}

	remaining, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if failed != nil && len(remaining) > 0 {
		return remaining, &apperr.Error{
			Kind: apperr.KindNetwork,
			Op:   "cart.clear",
			Msg:  ErrNotCleared.Error(),
			Err:  errors.Join(ErrNotCleared, failed),
		}
	}
	return remaining, nil
}

// FindLine returns the line with the given id from a fresh list.
func (s *Session) FindLine(ctx context.Context, lineID int64) (Line, error) {
	lines, err := s.List(ctx)
	if err != nil {
		return Line{}, err
	}
	for _, l := range lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return Line{}, apperr.NotFound("cart.find", "cart item not found")
}
