package repositories

import (
	"sepatu/internal/models"
)

// ShippingFeeListOptions pages and filters the admin listing of shipping
// rules. Search matches country codes case-insensitively as a substring.
type ShippingFeeListOptions struct {
	Page   int
	Limit  int
	Search string
}

func (o ShippingFeeListOptions) normalized() ShippingFeeListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	return o
}

// ShippingFeeRepository defines the interface for shipping rule data access.
// Country codes are normalized to uppercase before they reach this layer.
type ShippingFeeRepository interface {
	// GetByCountry looks up the rule for an uppercase country code.
	// With activeOnly set, inactive rules are treated as absent.
	GetByCountry(country string, activeOnly bool) (*models.ShippingFee, error)
	// GetAllActive returns every active rule sorted by country.
	GetAllActive() ([]models.ShippingFee, error)
	List(opts ShippingFeeListOptions) ([]models.ShippingFee, int64, error)
	GetByID(id string) (*models.ShippingFee, error)
	Create(fee *models.ShippingFee) error
	Update(fee *models.ShippingFee) error
	Delete(id string) error
}
