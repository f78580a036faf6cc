package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is a process-local Repository stand-in, used by `serve --memory`
// and by tests that need a working backend without Postgres.
type Memory struct {
	mu       sync.Mutex
	products map[int64]Product
	cart     map[int64]memLine
	nextProd int64
	nextLine int64
}

type memLine struct {
	owner     string
	productID int64
	quantity  int
}

func NewMemory(seed ...Product) *Memory {
	m := &Memory{products: map[int64]Product{}, cart: map[int64]memLine{}}
	for _, p := range seed {
		if p.ID == 0 {
			m.nextProd++
			p.ID = m.nextProd
		} else if p.ID > m.nextProd {
			m.nextProd = p.ID
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *Memory) ListProducts(ctx context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetProduct(ctx context.Context, id int64) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *Memory) CreateProduct(ctx context.Context, p Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProd++
	p.ID = m.nextProd
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *Memory) UpdateProduct(ctx context.Context, id int64, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	for lineID, l := range m.cart {
		if l.productID == id {
			delete(m.cart, lineID)
		}
	}
	return nil
}

func (m *Memory) ListCart(ctx context.Context, owner string) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []CartItem{}
	for id, l := range m.cart {
		if l.owner != owner {
			continue
		}
		p := m.products[l.productID]
		out = append(out, CartItem{
			ID:           id,
			ProductID:    l.productID,
			Quantity:     l.quantity,
			Title:        p.Title,
			Image:        p.Image,
			CurrentPrice: p.CurrentPrice,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) AddToCart(ctx context.Context, owner string, productID int64, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[productID]; !ok {
		return false, ErrProductNotFound
	}
	for id, l := range m.cart {
		if l.owner == owner && l.productID == productID {
			l.quantity += quantity
			m.cart[id] = l
			return true, nil
		}
	}
	m.nextLine++
	m.cart[m.nextLine] = memLine{owner: owner, productID: productID, quantity: quantity}
	return false, nil
}

func (m *Memory) UpdateCartItem(ctx context.Context, owner string, id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.cart[id]
	if !ok || l.owner != owner {
		return ErrNotFound
	}
	l.quantity = quantity
	m.cart[id] = l
	return nil
}

func (m *Memory) RemoveCartItem(ctx context.Context, owner string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.cart[id]
	if !ok || l.owner != owner {
		return ErrNotFound
	}
	delete(m.cart, id)
	return nil
}

func (m *Memory) ClearCart(ctx context.Context, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.cart {
		if l.owner == owner {
			delete(m.cart, id)
			n++
		}
	}
	return n, nil
}
