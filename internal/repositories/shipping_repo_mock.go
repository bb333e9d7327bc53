package repositories

import (
	"sort"
	"strings"
	"sync"

	"sepatu/internal/models"

	"github.com/google/uuid"
)

// MockShippingFeeRepository is an in-memory implementation of ShippingFeeRepository.
type MockShippingFeeRepository struct {
	fees map[string]models.ShippingFee // keyed by ID
	mu   sync.RWMutex
}

// NewMockShippingFeeRepository creates a new instance of MockShippingFeeRepository.
func NewMockShippingFeeRepository() *MockShippingFeeRepository {
	return &MockShippingFeeRepository{
		fees: make(map[string]models.ShippingFee),
	}
}

// GetByCountry returns the rule for an uppercase country code.
func (r *MockShippingFeeRepository) GetByCountry(country string, activeOnly bool) (*models.ShippingFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, fee := range r.fees {
		if fee.Country != country {
			continue
		}
		if activeOnly && !fee.IsActive {
			break
		}
		f := fee
		return &f, nil
	}
	return nil, ErrShippingFeeNotFound
}

// GetAllActive returns every active rule sorted by country.
func (r *MockShippingFeeRepository) GetAllActive() ([]models.ShippingFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fees := make([]models.ShippingFee, 0, len(r.fees))
	for _, fee := range r.fees {
		if fee.IsActive {
			fees = append(fees, fee)
		}
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].Country < fees[j].Country })
	return fees, nil
}

// List returns the requested page of rules sorted by country.
func (r *MockShippingFeeRepository) List(opts ShippingFeeListOptions) ([]models.ShippingFee, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts = opts.normalized()
	matched := make([]models.ShippingFee, 0, len(r.fees))
	for _, fee := range r.fees {
		if opts.Search != "" && !strings.Contains(fee.Country, strings.ToUpper(opts.Search)) {
			continue
		}
		matched = append(matched, fee)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Country < matched[j].Country })

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.Limit
	if start >= len(matched) {
		return []models.ShippingFee{}, total, nil
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// GetByID returns a rule by its ID.
func (r *MockShippingFeeRepository) GetByID(id string) (*models.ShippingFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fee, ok := r.fees[id]
	if !ok {
		return nil, ErrShippingFeeNotFound
	}
	return &fee, nil
}

// Create adds a new rule; the country must not already have one.
func (r *MockShippingFeeRepository) Create(fee *models.ShippingFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.fees {
		if existing.Country == fee.Country {
			return ErrDuplicateCountry
		}
	}
	if fee.ID == "" {
		fee.ID = uuid.New().String()
	}
	r.fees[fee.ID] = *fee
	return nil
}

// Update modifies an existing rule.
func (r *MockShippingFeeRepository) Update(fee *models.ShippingFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fees[fee.ID]; !ok {
		return ErrShippingFeeNotFound
	}
	for id, existing := range r.fees {
		if id != fee.ID && existing.Country == fee.Country {
			return ErrDuplicateCountry
		}
	}
	r.fees[fee.ID] = *fee
	return nil
}

// Delete removes a rule by its ID.
func (r *MockShippingFeeRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fees[id]; !ok {
		return ErrShippingFeeNotFound
	}
	delete(r.fees, id)
	return nil
}
