package repositories

import (
	"errors"
	"fmt"

	"sepatu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID from the database.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// List returns the requested page of matching orders, newest first, plus the
// total match count.
func (r *GORMOrderRepository) List(opts OrderListOptions) ([]models.Order, int64, error) {
	opts = opts.normalized()
	query := r.filtered(opts.Status, opts.Email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes an order record from the database.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// GetByIdempotencyKey returns the order created with the given key.
func (r *GORMOrderRepository) GetByIdempotencyKey(key string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by idempotency key: %w", err)
	}
	return &order, nil
}

// Stats aggregates order counts and money figures, optionally per customer.
func (r *GORMOrderRepository) Stats(email string) (*models.OrderStats, error) {
	stats := &models.OrderStats{}

	counts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{"", &stats.TotalOrders},
		{models.StatusPending, &stats.PendingOrders},
		{models.StatusShipped, &stats.ShippedOrders},
		{models.StatusCompleted, &stats.CompletedOrders},
	}
	for _, c := range counts {
		if err := r.filtered(c.status, email).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
	}

	err := r.filtered("", email).
		Where("status IN ?", []models.OrderStatus{models.StatusShipped, models.StatusCompleted}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum order revenue: %w", err)
	}

	err = r.filtered("", email).
		Select("COALESCE(SUM(total + shipping_fee), 0)").
		Scan(&stats.TotalSpent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum order spend: %w", err)
	}
	return stats, nil
}

// Recent returns the newest orders for a customer email.
func (r *GORMOrderRepository) Recent(email string, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.filtered("", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) filtered(status models.OrderStatus, email string) *gorm.DB {
	query := r.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if email != "" {
		query = query.Where("LOWER(customer_email) = LOWER(?)", email)
	}
	return query
}
