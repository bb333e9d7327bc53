package repositories

import (
	"sepatu/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Reserve and Release are the only stock mutators. Each one is a single
// indivisible operation: implementations must hold the product exclusively
// for the whole check-and-update so that concurrent reservations against the
// same size option can never both succeed on insufficient stock.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// Reserve decrements stock of the addressed size option by qty and
	// recomputes the product's InStock flag. It fails with
	// *InsufficientStockError when stock < qty, leaving the product untouched.
	Reserve(productID string, variationIdx, sizeIdx, qty int) error

	// Release increments stock of the addressed size option by qty and sets
	// InStock to true unconditionally.
	Release(productID string, variationIdx, sizeIdx, qty int) error
}
