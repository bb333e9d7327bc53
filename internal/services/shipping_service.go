package services

import (
	"strings"

	"sepatu/internal/models"
	"sepatu/internal/repositories"
)

// ShippingService exposes the per-country shipping rate table and its admin
// maintenance operations. Country codes are matched case-insensitively and
// stored uppercase.
type ShippingService struct {
	repo repositories.ShippingFeeRepository
}

// NewShippingService creates a new ShippingService.
func NewShippingService(repo repositories.ShippingFeeRepository) *ShippingService {
	return &ShippingService{
		repo: repo,
	}
}

// RateForCountry looks up the active rule for a country.
func (s *ShippingService) RateForCountry(country string) (*models.ShippingFee, error) {
	return s.repo.GetByCountry(normalizeCountry(country), true)
}

// ActiveCountries lists every active shipping rule sorted by country.
func (s *ShippingService) ActiveCountries() ([]models.ShippingFee, error) {
	return s.repo.GetAllActive()
}

// ListRules returns a page of rules for the admin screen.
func (s *ShippingService) ListRules(opts repositories.ShippingFeeListOptions) ([]models.ShippingFee, int64, error) {
	return s.repo.List(opts)
}

// GetRule retrieves a rule by its ID.
func (s *ShippingService) GetRule(id string) (*models.ShippingFee, error) {
	return s.repo.GetByID(id)
}

// CreateRule adds a new shipping rule.
func (s *ShippingService) CreateRule(fee *models.ShippingFee) error {
	fee.Country = normalizeCountry(fee.Country)
	return s.repo.Create(fee)
}

// UpdateRule modifies an existing shipping rule.
func (s *ShippingService) UpdateRule(fee *models.ShippingFee) error {
	fee.Country = normalizeCountry(fee.Country)
	return s.repo.Update(fee)
}

// DeleteRule removes a shipping rule.
func (s *ShippingService) DeleteRule(id string) error {
	return s.repo.Delete(id)
}

// ToggleRule flips a rule's active flag and returns the updated rule.
func (s *ShippingService) ToggleRule(id string) (*models.ShippingFee, error) {
	fee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	fee.IsActive = !fee.IsActive
	if err := s.repo.Update(fee); err != nil {
		return nil, err
	}
	return fee, nil
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}
