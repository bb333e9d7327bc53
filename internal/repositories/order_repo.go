package repositories

import (
	"sepatu/internal/models"
)

// OrderListOptions narrows and pages an order listing. Zero values mean "no
// filter"; Page and Limit fall back to 1 and 10.
type OrderListOptions struct {
	Page   int
	Limit  int
	Status models.OrderStatus
	Email  string
}

func (o OrderListOptions) normalized() OrderListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	return o
}

// OrderRepository defines the interface for order data access. Orders are
// immutable after creation except for their status and whole-record deletion.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// List returns a page of orders sorted newest first, plus the total
	// number of orders matching the filter.
	List(opts OrderListOptions) ([]models.Order, int64, error)
	UpdateStatus(id string, status models.OrderStatus) error
	Delete(id string) error
	// GetByIdempotencyKey returns the order created with the given
	// client-supplied key, or ErrOrderNotFound.
	GetByIdempotencyKey(key string) (*models.Order, error)
	// Stats aggregates counts per status plus revenue (Σ total over shipped
	// and completed orders) and spend (Σ total+shippingFee over all matched
	// orders). An empty email aggregates over every order.
	Stats(email string) (*models.OrderStats, error)
	// Recent returns the newest orders for a customer email.
	Recent(email string, limit int) ([]models.Order, error)
}
