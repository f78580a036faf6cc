// Package ephemeral holds per-session state that lives only in the BFF's
// memory: the saved-for-later list and the last browse view. Nothing here
// survives a restart.
package ephemeral

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type SavedItem struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"current_price"`
	Image     string    `json:"image"`
	SavedAt   time.Time `json:"saved_at"`
}

// FromLine snapshots a cart line for saving.
func FromLine(l cart.Line) SavedItem {
	return SavedItem{
		ProductID: l.ProductID,
		Title:     l.Title,
		Price:     l.Price,
		Image:     l.Image,
	}
}

type bucket struct {
	items   []SavedItem
	view    *catalog.View
	touched time.Time
}

// Store keeps saved items and the browse view per session key. A bucket idle for longer than
// the TTL is dropped on next access or by Sweep.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// bucketLocked returns the live bucket for key, creating one if asked.
func (s *Store) bucketLocked(key string, create bool) *bucket {
	now := s.now()
	b, ok := s.buckets[key]
	if ok && s.expired(b, now) {
		delete(s.buckets, key)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		b = &bucket{}
		s.buckets[key] = b
	}
	b.touched = now
	return b
}

func (s *Store) expired(b *bucket, now time.Time) bool {
	return s.ttl > 0 && now.Sub(b.touched) > s.ttl
}

// Save prepends item to key's list and returns the stored copy, with an
// id and timestamp assigned when missing.
func (s *Store) Save(key string, item SavedItem) (SavedItem, error) {
	if key == "" {
		return SavedItem{}, apperr.Validation("saved.save", "a session is required to save items")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, true)
	if item.SavedAt.IsZero() {
		item.SavedAt = b.touched
	}
	b.items = append([]SavedItem{item}, b.items...)
	return item, nil
}

// List returns key's items, newest first.
func (s *Store) List(key string) []SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, false)
	if b == nil {
		return []SavedItem{}
	}
	out := make([]SavedItem, len(b.items))
	copy(out, b.items)
	return out
}

// Take removes and returns the item with id.
func (s *Store) Take(key, id string) (SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, false)
	if b == nil {
		return SavedItem{}, apperr.NotFound("saved.take", "saved item not found")
	}
	for i, it := range b.items {
		if it.ID == id {
			b.items = append(b.items[:i:i], b.items[i+1:]...)
			return it, nil
		}
	}
	return SavedItem{}, apperr.NotFound("saved.take", "saved item not found")
}

func (s *Store) Delete(key, id string) error {
	_, err := s.Take(key, id)
	return err
}

// Restore puts a taken item back into the newest-first list at the slot
// its SavedAt gives it.
func (s *Store) Restore(key string, item SavedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, true)
	i := 0
	for i < len(b.items) && b.items[i].SavedAt.After(item.SavedAt) {
		i++
	}
	b.items = append(b.items[:i:i], append([]SavedItem{item}, b.items[i:]...)...)
}

// LastView returns the browse view last remembered for key.
func (s *Store) LastView(key string) (catalog.View, bool) {
	if key == "" {
		return catalog.View{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, false)
	if b == nil || b.view == nil {
		return catalog.View{}, false
	}
	return *b.view, true
}

// RememberView stores v as key's browse view. An empty key is a no-op.
func (s *Store) RememberView(key string, v catalog.View) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketLocked(key, true)
	b.view = &v
}

// Sweep drops expired buckets and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, b := range s.buckets {
		if s.expired(b, now) {
			delete(s.buckets, k)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
