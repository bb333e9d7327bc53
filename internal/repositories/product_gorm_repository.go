package repositories

import (
	"errors"
	"fmt"

	"sepatu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.InStock = product.HasStock()
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	product.InStock = product.HasStock()
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Reserve decrements stock for one size option inside a transaction that
// row-locks the product (SELECT ... FOR UPDATE), so the check and the
// decrement are indivisible with respect to concurrent reservations.
func (r *GORMProductRepository) Reserve(productID string, variationIdx, sizeIdx, qty int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		opt, err := sizeOptionAt(product, variationIdx, sizeIdx)
		if err != nil {
			return err
		}
		if opt.Stock < qty {
			return &InsufficientStockError{
				ProductID: productID,
				Requested: qty,
				Available: opt.Stock,
			}
		}
		opt.Stock -= qty
		product.InStock = product.HasStock()
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to persist reservation for product %s: %w", productID, err)
		}
		return nil
	})
}

// Release restores stock for one size option under the same lock discipline
// as Reserve and marks the product in stock.
func (r *GORMProductRepository) Release(productID string, variationIdx, sizeIdx, qty int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		product, err := lockProduct(tx, productID)
		if err != nil {
			return err
		}
		opt, err := sizeOptionAt(product, variationIdx, sizeIdx)
		if err != nil {
			return err
		}
		opt.Stock += qty
		product.InStock = true
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to persist stock release for product %s: %w", productID, err)
		}
		return nil
	})
}

func lockProduct(tx *gorm.DB, productID string) (*models.Product, error) {
	query := tx
	// SQLite has no FOR UPDATE; its single writer lock serializes the
	// transaction instead.
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	err := query.First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", productID, err)
	}
	return &product, nil
}

func sizeOptionAt(product *models.Product, variationIdx, sizeIdx int) (*models.SizeOption, error) {
	if variationIdx < 0 || variationIdx >= len(product.Variations) {
		return nil, ErrVariantNotFound
	}
	variation := &product.Variations[variationIdx]
	if sizeIdx < 0 || sizeIdx >= len(variation.SizeOptions) {
		return nil, ErrSizeNotFound
	}
	return &variation.SizeOptions[sizeIdx], nil
}
