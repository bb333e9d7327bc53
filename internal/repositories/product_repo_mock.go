package repositories

import (
	"sync"

	"sepatu/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.InStock = product.HasStock()
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.InStock = product.HasStock()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// Reserve decrements stock for one size option. The write lock is held across
// the whole check-and-decrement so concurrent reservations serialize.
func (r *MockProductRepository) Reserve(productID string, variationIdx, sizeIdx, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	if variationIdx < 0 || variationIdx >= len(product.Variations) {
		return ErrVariantNotFound
	}
	variation := &product.Variations[variationIdx]
	if sizeIdx < 0 || sizeIdx >= len(variation.SizeOptions) {
		return ErrSizeNotFound
	}

	opt := &variation.SizeOptions[sizeIdx]
	if opt.Stock < qty {
		return &InsufficientStockError{
			ProductID: productID,
			Requested: qty,
			Available: opt.Stock,
		}
	}
	opt.Stock -= qty
	product.InStock = product.HasStock()
	r.products[productID] = product
	return nil
}

// Release restores stock for one size option and marks the product in stock.
func (r *MockProductRepository) Release(productID string, variationIdx, sizeIdx, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	if variationIdx < 0 || variationIdx >= len(product.Variations) {
		return ErrVariantNotFound
	}
	variation := &product.Variations[variationIdx]
	if sizeIdx < 0 || sizeIdx >= len(variation.SizeOptions) {
		return ErrSizeNotFound
	}

	variation.SizeOptions[sizeIdx].Stock += qty
	product.InStock = true
	r.products[productID] = product
	return nil
}
