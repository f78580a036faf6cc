// Package carttest provides an in-memory cart.Backend for tests of the
// packages built on cart.Session.
package carttest

import (
	"context"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type Memory struct {
	mu       sync.Mutex
	products map[int64]catalog.Product
	lines    []cart.Line
	nextID   int64
	calls    map[string]int

	// FailRemove makes RemoveCartLine fail for the listed line ids.
	FailRemove map[int64]error
	// FailAdd makes every AddToCart fail.
	FailAdd error
}

// NewMemory returns a cart that only accepts the given products.
func NewMemory(products ...catalog.Product) *Memory {
	m := &Memory{
		products:   make(map[int64]catalog.Product, len(products)),
		calls:      map[string]int{},
		FailRemove: map[int64]error{},
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *Memory) ListCart(ctx context.Context) ([]cart.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["list"]++
	return append([]cart.Line{}, m.lines...), nil
}

func (m *Memory) AddToCart(ctx context.Context, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["add"]++
	if m.FailAdd != nil {
		return m.FailAdd
	}
	p, ok := m.products[productID]
	if !ok {
		return apperr.NotFound("cart.add", "Product not found")
	}
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity += quantity
			return nil
		}
	}
	m.nextID++
	m.lines = append(m.lines, cart.Line{
		ID:        m.nextID,
		ProductID: p.ID,
		Quantity:  quantity,
		Title:     p.Title,
		Price:     p.CurrentPrice,
		Image:     p.Image,
	})
	return nil
}

func (m *Memory) UpdateCartLine(ctx context.Context, lineID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["update"]++
	for i := range m.lines {
		if m.lines[i].ID == lineID {
			m.lines[i].Quantity = quantity
			return nil
		}
	}
	return apperr.NotFound("cart.update", "Cart item not found")
}

func (m *Memory) RemoveCartLine(ctx context.Context, lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["remove"]++
	if err := m.FailRemove[lineID]; err != nil {
		return err
	}
	for i := range m.lines {
		if m.lines[i].ID == lineID {
			m.lines = append(m.lines[:i:i], m.lines[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("cart.remove", "Cart item not found")
}

// Calls reports how many times the named operation ran: list, add,
// update or remove.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls counts every backend call.
func (m *Memory) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

var _ cart.Backend = (*Memory)(nil)
