package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"sepatu/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// List returns the requested page of matching orders, newest first.
func (r *MockOrderRepository) List(opts OrderListOptions) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts = opts.normalized()
	matched := r.match(opts.Status, opts.Email)
	total := int64(len(matched))

	start := (opts.Page - 1) * opts.Limit
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Delete removes an order record.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

// GetByIdempotencyKey returns the order created with the given key.
func (r *MockOrderRepository) GetByIdempotencyKey(key string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.IdempotencyKey != "" && order.IdempotencyKey == key {
			o := order
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Stats aggregates order counts and money figures, optionally per customer.
func (r *MockOrderRepository) Stats(email string) (*models.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.OrderStats{}
	for _, order := range r.orders {
		if email != "" && !strings.EqualFold(order.CustomerInfo.Email, email) {
			continue
		}
		stats.TotalOrders++
		switch order.Status {
		case models.StatusPending:
			stats.PendingOrders++
		case models.StatusShipped:
			stats.ShippedOrders++
			stats.TotalRevenue += order.Total
		case models.StatusCompleted:
			stats.CompletedOrders++
			stats.TotalRevenue += order.Total
		}
		stats.TotalSpent += order.Total + order.ShippingFee
	}
	return stats, nil
}

// Recent returns the newest orders for a customer email.
func (r *MockOrderRepository) Recent(email string, limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match("", email)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// match returns matching orders sorted newest first. Callers must hold the lock.
func (r *MockOrderRepository) match(status models.OrderStatus, email string) []models.Order {
	matched := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		if email != "" && !strings.EqualFold(order.CustomerInfo.Email, email) {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}
