// Package service provides the implementation of product-related business logic.
package service

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Load replaces the in-memory products with the stored ones.
	Load() error

	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll() []ProductDto

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(id int) (*ProductDto, error)

	// SearchByName returns products whose name contains query, ignoring case.
	SearchByName(query string) []ProductDto

	// Create adds a new product with the next free ID.
	// Returns ErrValidation if the product is invalid.
	Create(product ProductCreateDto) (*ProductDto, error)

	// Update modifies an existing product's details.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(id int, update ProductUpdateDto) (*ProductDto, error)

	// ChangeQuantity adds delta to a product's quantity.
	// Returns ErrInsufficientStock if the quantity would become negative,
	// or ErrInvalidAmount if it would overflow.
	ChangeQuantity(id int, delta int) (*ProductDto, error)

	// Restock increases a product's quantity by a positive amount.
	// Returns ErrInvalidAmount if amount is not positive, before looking the product up,
	// or if the quantity would overflow.
	Restock(id int, amount int) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(id int) error
}

// Inventory implements ProductService. It exclusively owns the product collection and
// persists the whole collection after every mutation.
//
// A failed save is reported as an error wrapping ErrSaveFailed, but the mutation is kept:
// memory stays the source of truth until the next successful save.
type Inventory struct {
	repository store.ProductStore
	products   []store.Product
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new instance of Inventory with the provided repository.
// The collection starts empty until Load is called.
func NewService(repo store.ProductStore, logger *slog.Logger) *Inventory {
	return &Inventory{
		repository: repo,
		products:   make([]store.Product, 0),
		validate:   newValidator(),
		logger:     logger.With("component", "service"),
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name     string
	Category string
	Quantity int             `validate:"gte=0"`
	Price    decimal.Decimal `validate:"gte=0"`
}

// ProductUpdateDto carries optional changes. Blank text keeps the current value;
// a negative Quantity or Price (conventionally -1) keeps the current value.
type ProductUpdateDto struct {
	Name     string
	Category string
	Quantity int
	Price    decimal.Decimal
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int
	Name     string
	Category string
	Quantity int
	Price    decimal.Decimal
}

// Load reads all products from the repository.
func (s *Inventory) Load() error {
	products, err := s.repository.Load()
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	s.products = products
	s.logger.Info("Inventory loaded", "count", len(products))
	return nil
}

// FindAll returns copies of all products.
func (s *Inventory) FindAll() []ProductDto {
	productDTOs := make([]ProductDto, len(s.products))
	for i, item := range s.products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Inventory) FindByID(id int) (*ProductDto, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, perrors.ErrProductNotFound)
	}
	return toDto(&s.products[i]), nil
}

// SearchByName matches query as a lower-cased substring of the lower-cased name.
// The category is not searched. An empty query matches every product.
func (s *Inventory) SearchByName(query string) []ProductDto {
	needle := strings.ToLower(query)
	matches := make([]ProductDto, 0)
	for _, item := range s.products {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, *toDto(&item))
		}
	}
	return matches
}

// Create validates the product, assigns the next ID, appends it and saves.
func (s *Inventory) Create(product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: %w", perrors.ErrValidation, err)
	}

	p := store.Product{
		ID:       store.NextID(s.products),
		Name:     product.Name,
		Category: product.Category,
		Quantity: product.Quantity,
		Price:    product.Price,
	}
	s.products = append(s.products, p)
	s.logger.Debug("Product created", "ID", p.ID, "Name", p.Name)

	return toDto(&p), s.save("create", p.ID)
}

// Update applies the non-blank text fields and the non-negative numeric fields of update.
func (s *Inventory) Update(id int, update ProductUpdateDto) (*ProductDto, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to update product %d: %w", id, perrors.ErrProductNotFound)
	}

	p := &s.products[i]
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Category != "" {
		p.Category = update.Category
	}
	if update.Quantity >= 0 {
		p.Quantity = update.Quantity
	}
	if !update.Price.IsNegative() {
		p.Price = update.Price
	}
	s.logger.Debug("Product updated", "ID", p.ID)

	return toDto(p), s.save("update", id)
}

// ChangeQuantity adds delta to the quantity unless the result would be negative
// or overflow, in which case nothing is changed or saved. The returned product carries the
// current stock in both cases.
func (s *Inventory) ChangeQuantity(id int, delta int) (*ProductDto, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to change quantity of product %d: %w", id, perrors.ErrProductNotFound)
	}

	p := &s.products[i]
	if delta < 0 && p.Quantity+delta < 0 {
		s.logger.Debug("Refusing quantity change", "ID", id, "quantity", p.Quantity, "delta", delta)
		return toDto(p), fmt.Errorf("product %d has %d in stock: %w", id, p.Quantity, perrors.ErrInsufficientStock)
	}
	if delta > 0 && delta > math.MaxInt-p.Quantity {
		return toDto(p), fmt.Errorf("product %d cannot hold %d more: %w", id, delta, perrors.ErrInvalidAmount)
	}
	p.Quantity += delta
	s.logger.Debug("Quantity changed", "ID", id, "delta", delta, "quantity", p.Quantity)

	return toDto(p), s.save("change quantity", id)
}

// Restock adds a positive amount to the quantity.
// An amount that would overflow the quantity is refused like a non-positive one.
func (s *Inventory) Restock(id int, amount int) (*ProductDto, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("restock by %d: %w", amount, perrors.ErrInvalidAmount)
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("failed to restock product %d: %w", id, perrors.ErrProductNotFound)
	}

	p := &s.products[i]
	if amount > math.MaxInt-p.Quantity {
		return nil, fmt.Errorf("product %d cannot hold %d more: %w", id, amount, perrors.ErrInvalidAmount)
	}
	p.Quantity += amount
	s.logger.Debug("Product restocked", "ID", id, "amount", amount, "quantity", p.Quantity)

	return toDto(p), s.save("restock", id)
}

// DeleteByID removes the product and saves.
func (s *Inventory) DeleteByID(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("failed to delete product %d: %w", id, perrors.ErrProductNotFound)
	}
	s.products = slices.Delete(s.products, i, i+1)
	s.logger.Debug("Product deleted", "ID", id)

	return s.save("delete", id)
}

// save persists the whole collection. The in-memory state is not rolled back on failure.
func (s *Inventory) save(op string, id int) error {
	if err := s.repository.SaveAll(s.products); err != nil {
		s.logger.Error("Error saving products, memory and storage now differ", "op", op, "ID", id, "error", err)
		return fmt.Errorf("%w after %s of product %d: %w", perrors.ErrSaveFailed, op, id, err)
	}
	return nil
}

func (s *Inventory) indexOf(id int) int {
	return slices.IndexFunc(s.products, func(p store.Product) bool {
		return p.ID == id
	})
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Quantity: product.Quantity,
		Price:    product.Price,
	}
}

// newValidator returns a validator that compares decimals as numbers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
