package repositories

import (
	"errors"
	"fmt"
	"strings"

	"sepatu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShippingFeeRepository is a GORM implementation of ShippingFeeRepository.
type GORMShippingFeeRepository struct {
	db *gorm.DB
}

// NewGORMShippingFeeRepository creates a new instance of GORMShippingFeeRepository.
func NewGORMShippingFeeRepository(db *gorm.DB) *GORMShippingFeeRepository {
	return &GORMShippingFeeRepository{
		db: db,
	}
}

// GetByCountry returns the rule for an uppercase country code.
func (r *GORMShippingFeeRepository) GetByCountry(country string, activeOnly bool) (*models.ShippingFee, error) {
	query := r.db.Where("country = ?", country)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var fee models.ShippingFee
	if err := query.First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShippingFeeNotFound
		}
		return nil, fmt.Errorf("failed to get shipping rule for %s: %w", country, err)
	}
	return &fee, nil
}

// GetAllActive returns every active rule sorted by country.
func (r *GORMShippingFeeRepository) GetAllActive() ([]models.ShippingFee, error) {
	var fees []models.ShippingFee
	err := r.db.Where("is_active = ?", true).Order("country ASC").Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active shipping rules: %w", err)
	}
	return fees, nil
}

// List returns the requested page of rules sorted by country.
func (r *GORMShippingFeeRepository) List(opts ShippingFeeListOptions) ([]models.ShippingFee, int64, error) {
	opts = opts.normalized()
	query := r.db.Model(&models.ShippingFee{})
	if opts.Search != "" {
		query = query.Where("country LIKE ?", "%"+strings.ToUpper(opts.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shipping rules: %w", err)
	}

	var fees []models.ShippingFee
	err := query.
		Order("country ASC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&fees).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shipping rules: %w", err)
	}
	return fees, total, nil
}

// GetByID returns a rule by its ID.
func (r *GORMShippingFeeRepository) GetByID(id string) (*models.ShippingFee, error) {
	var fee models.ShippingFee
	if err := r.db.First(&fee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShippingFeeNotFound
		}
		return nil, fmt.Errorf("failed to get shipping rule by ID %s: %w", id, err)
	}
	return &fee, nil
}

// Create adds a new rule; the country must not already have one.
func (r *GORMShippingFeeRepository) Create(fee *models.ShippingFee) error {
	var count int64
	if err := r.db.Model(&models.ShippingFee{}).Where("country = ?", fee.Country).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing shipping rule: %w", err)
	}
	if count > 0 {
		return ErrDuplicateCountry
	}

	if fee.ID == "" {
		fee.ID = uuid.New().String()
	}
	if err := r.db.Create(fee).Error; err != nil {
		return fmt.Errorf("failed to create shipping rule: %w", err)
	}
	return nil
}

// Update modifies an existing rule.
func (r *GORMShippingFeeRepository) Update(fee *models.ShippingFee) error {
	var count int64
	err := r.db.Model(&models.ShippingFee{}).
		Where("country = ? AND id <> ?", fee.Country, fee.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check for conflicting shipping rule: %w", err)
	}
	if count > 0 {
		return ErrDuplicateCountry
	}

	res := r.db.Model(&models.ShippingFee{}).Where("id = ?", fee.ID).
		Select("Country", "BaseFee", "PerKgRate", "IsActive").
		Updates(fee)
	if res.Error != nil {
		return fmt.Errorf("failed to update shipping rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrShippingFeeNotFound
	}
	return nil
}

// Delete removes a rule by its ID.
func (r *GORMShippingFeeRepository) Delete(id string) error {
	res := r.db.Delete(&models.ShippingFee{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shipping rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrShippingFeeNotFound
	}
	return nil
}
