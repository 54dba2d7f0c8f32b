// Package store provides product records, their text codec and the stores that persist them.
package store

import "github.com/shopspring/decimal"

// Product represents a product entity in the store.
type Product struct {
	ID       int
	Name     string
	Category string
	Quantity int
	Price    decimal.Decimal
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., file, in-memory).
// The full record set is the unit of persistence: there are no partial updates.
type ProductStore interface {
	// Load reads every stored product in storage order.
	// Returns an empty slice if nothing has been stored yet.
	Load() ([]Product, error)

	// SaveAll replaces the stored set with products.
	// Returns an error wrapping ErrSaveFailed if the set cannot be written.
	SaveAll(products []Product) error
}

// NextID returns the id for a new product: the highest existing id plus one, or 1 for an empty set.
func NextID(products []Product) int {
	maxID := 0
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}
