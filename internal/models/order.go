package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCompleted OrderStatus = "Completed"
)

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// Orders only move forward through the lifecycle. Re-asserting the current
// status is allowed; going backwards is not.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusPending: true, StatusShipped: true},
	StatusShipped:   {StatusShipped: true, StatusCompleted: true},
	StatusCompleted: {StatusCompleted: true},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// OrderItem is a snapshot of a purchased size option captured at order time.
// It does not track later changes to the source product.
type OrderItem struct {
	ProductID     string   `json:"product_id"`
	ProductName   string   `json:"product_name"`
	Quantity      int      `json:"quantity"`
	Price         float64  `json:"price"` // size-option price at order time
	SelectedColor string   `json:"selected_color"`
	SelectedSize  ShoeSize `json:"selected_size"`
}

// CustomerInfo identifies the recipient of an order.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address" validate:"required"`
}

// Order represents a customer order. Items, totals and customer info are
// immutable after creation; only Status may change.
type Order struct {
	ID              string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Items           []OrderItem  `json:"items" gorm:"serializer:json"`
	Total           float64      `json:"total"`
	ShippingFee     float64      `json:"shipping_fee"`
	ShippingCountry string       `json:"shipping_country"`
	TotalWeightKg   float64      `json:"total_weight"`
	CustomerInfo    CustomerInfo `json:"customer_info" gorm:"embedded;embeddedPrefix:customer_"`
	Status          OrderStatus  `json:"status" gorm:"type:varchar(16);index"`
	IdempotencyKey  string       `json:"idempotency_key,omitempty" gorm:"type:varchar(64);uniqueIndex:idx_orders_idem,where:idempotency_key <> ''"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// OrderStats is the aggregate view returned by the statistics endpoints.
// TotalRevenue sums order totals over shipped and completed orders;
// TotalSpent sums total plus shipping fee over every matched order and is
// only populated for user-scoped summaries.
type OrderStats struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	ShippedOrders   int64   `json:"shippedOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalSpent      float64 `json:"totalSpent,omitempty"`
}
