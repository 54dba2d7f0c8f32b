package store

import (
	"slices"
	"sync"
)

// InMemoryStore implements ProductStore using an in-memory slice.
// Nothing survives the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	products []Product
	saves    int
}

// NewInMemoryStore creates an InMemoryStore, optionally seeded with products.
func NewInMemoryStore(seed ...Product) *InMemoryStore {
	return &InMemoryStore{
		products: slices.Clone(seed),
	}
}

// Load returns a copy of the last saved products.
func (s *InMemoryStore) Load() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// SaveAll keeps a copy of products.
func (s *InMemoryStore) SaveAll(products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = slices.Clone(products)
	s.saves++
	return nil
}

// Saves returns how many times SaveAll has been called.
func (s *InMemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
