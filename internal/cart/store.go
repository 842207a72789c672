// Package cart keeps the shopper's line items and derived totals in memory.
package cart

import (
	"slices"
	"sync"

	"github.com/msomdec/shopfront/internal/domain"
	"github.com/shopspring/decimal"
)

// Store is an in-memory cart. Line items are unique by product ID and kept
// in the order they were first added. The zero value is an empty cart.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem
}

// New returns an empty cart.
func New() *Store {
	return &Store{}
}

// AddItem adds one unit of p. An existing line keeps its name and price.
func (s *Store) AddItem(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity++
		return
	}
	s.items = append(s.items, domain.LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: 1,
	})
}

// UpdateQuantity sets the quantity of id to n. n <= 0 removes the line.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if n <= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return
	}
	s.items[i].Quantity = n
}

// RemoveItem drops the line for id, if any.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Total is the sum of price * quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, li := range s.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// ItemCount is the number of units in the cart, not distinct products.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}

// Len is the number of distinct products in the cart.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(li domain.LineItem) bool {
		return li.ID == id
	})
}
