package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"sepatu/internal/models"
	"sepatu/internal/repositories"

	"github.com/google/uuid"
)

// OrderService orchestrates order fulfillment: availability validation,
// pricing, stock reservation, persistence and the compensating stock
// restoration on cancellation. It is the only writer that touches both the
// product catalog and the order ledger.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	shippingRepo repositories.ShippingFeeRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, shippingRepo repositories.ShippingFeeRepository) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		shippingRepo: shippingRepo,
	}
}

// OrderItemRequest is one requested line item of a checkout.
type OrderItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	SelectedColor string          `json:"selected_color" validate:"required"`
	SelectedSize  models.ShoeSize `json:"selected_size"`
}

// CreateOrderRequest is a parsed, type-checked checkout request.
type CreateOrderRequest struct {
	Items           []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	CustomerInfo    models.CustomerInfo `json:"customer_info" validate:"required"`
	ShippingCountry string              `json:"shipping_country" validate:"required,min=2"`
	// IdempotencyKey lets clients retry safely: a second request carrying the
	// same key returns the already-created order without side effects.
	IdempotencyKey string `json:"idempotency_key,omitempty" validate:"omitempty,max=64"`
}

// resolvedItem pins a line item to concrete variation/size indices with the
// price and weight captured for the snapshot.
type resolvedItem struct {
	request      OrderItemRequest
	productID    string
	productName  string
	variationIdx int
	sizeIdx      int
	price        float64
	unitWeightKg float64
}

// CreateOrder validates and prices every line item, reserves stock, and
// persists the order with Pending status. Reservations already made are
// released again if a later item or the final persistence step fails, so a
// rejected checkout never leaks stock.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(req.IdempotencyKey)
		if err == nil {
			log.Printf("Order create replay for idempotency key %q, returning order %s", req.IdempotencyKey, existing.ID)
			return existing, nil
		}
		if !errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	country := strings.ToUpper(strings.TrimSpace(req.ShippingCountry))
	rule, err := s.shippingRepo.GetByCountry(country, true)
	if err != nil {
		if errors.Is(err, repositories.ErrShippingFeeNotFound) {
			return nil, &OrderInvalidError{
				Message: fmt.Sprintf("Shipping to %s is not available", req.ShippingCountry),
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to resolve shipping rule: %w", err)
	}

	var total, totalWeight float64
	resolved := make([]resolvedItem, 0, len(req.Items))
	for _, item := range req.Items {
		ri, err := s.resolveItem(item)
		if err != nil {
			return nil, err
		}
		total += ri.price * float64(item.Quantity)
		totalWeight += ri.unitWeightKg * float64(item.Quantity)
		resolved = append(resolved, *ri)
	}

	// Reserve in item order. Any failure releases what was already taken
	// before the error is returned.
	for i, ri := range resolved {
		err := s.productRepo.Reserve(ri.productID, ri.variationIdx, ri.sizeIdx, ri.request.Quantity)
		if err != nil {
			s.compensate(resolved[:i])
			var stockErr *repositories.InsufficientStockError
			if errors.As(err, &stockErr) {
				return nil, &OrderInvalidError{
					Message: fmt.Sprintf("Insufficient stock for product %s (%s, size EU %v). Available: %d",
						ri.productName, ri.request.SelectedColor, ri.request.SelectedSize.EU, stockErr.Available),
					Err: err,
				}
			}
			return nil, fmt.Errorf("failed to reserve stock for product %s: %w", ri.productID, err)
		}
	}

	items := make([]models.OrderItem, 0, len(resolved))
	for _, ri := range resolved {
		items = append(items, models.OrderItem{
			ProductID:     ri.productID,
			ProductName:   ri.productName,
			Quantity:      ri.request.Quantity,
			Price:         ri.price,
			SelectedColor: ri.request.SelectedColor,
			SelectedSize:  ri.request.SelectedSize,
		})
	}

	customer := req.CustomerInfo
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))

	order := &models.Order{
		ID:              uuid.New().String(),
		Items:           items,
		Total:           total,
		ShippingFee:     rule.Fee(totalWeight),
		ShippingCountry: rule.Country,
		TotalWeightKg:   totalWeight,
		CustomerInfo:    customer,
		Status:          models.StatusPending,
		IdempotencyKey:  req.IdempotencyKey,
	}

	if err := s.orderRepo.Create(order); err != nil {
		// The stock is already taken but the order record failed: undo the
		// reservations so the failure leaves no partial mutation behind.
		s.compensate(resolved)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	log.Printf("Order %s created: %d item(s), total %.2f, shipping %.2f to %s",
		order.ID, len(order.Items), order.Total, order.ShippingFee, order.ShippingCountry)
	return order, nil
}

// resolveItem maps a requested (product, color, size) to concrete indices and
// snapshot values. Stock is not checked here; that happens atomically at
// reservation time.
func (s *OrderService) resolveItem(item OrderItemRequest) (*resolvedItem, error) {
	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, &OrderInvalidError{
				Message: fmt.Sprintf("Product with ID %s not found", item.ProductID),
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
	}

	displayName := product.Name.Resolve("en")
	variationIdx, ok := product.FindVariation(item.SelectedColor)
	if !ok {
		return nil, &OrderInvalidError{
			Message: fmt.Sprintf("Color %q not available for product %s", item.SelectedColor, displayName),
			Err:     repositories.ErrVariantNotFound,
		}
	}
	sizeIdx, ok := product.Variations[variationIdx].FindSizeOption(item.SelectedSize)
	if !ok {
		return nil, &OrderInvalidError{
			Message: fmt.Sprintf("Size EU %v / US %v not available for color %q of product %s",
				item.SelectedSize.EU, item.SelectedSize.US, item.SelectedColor, displayName),
			Err: repositories.ErrSizeNotFound,
		}
	}

	return &resolvedItem{
		request:      item,
		productID:    product.ID,
		productName:  displayName,
		variationIdx: variationIdx,
		sizeIdx:      sizeIdx,
		price:        product.Variations[variationIdx].SizeOptions[sizeIdx].Price,
		unitWeightKg: product.EffectiveWeightKg(),
	}, nil
}

// compensate releases the reservations of the given items, newest first.
// Release failures are logged, not returned: the caller is already on an
// error path and the remaining items must still be restored.
func (s *OrderService) compensate(reserved []resolvedItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		ri := reserved[i]
		if err := s.productRepo.Release(ri.productID, ri.variationIdx, ri.sizeIdx, ri.request.Quantity); err != nil {
			log.Printf("Failed to release reserved stock for product %s after aborted order: %v", ri.productID, err)
		}
	}
}

// DeleteOrder cancels a pending order: it restores the reserved stock of each
// item and removes the record. Items whose product, color or size can no
// longer be resolved (the product was restructured since the order) are
// skipped rather than aborting the whole cancellation.
func (s *OrderService) DeleteOrder(id string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		return &InvalidStateError{
			Message: fmt.Sprintf("Can only delete orders with Pending status, order %s is %s", id, order.Status),
		}
	}

	for _, item := range order.Items {
		if !s.restoreItemStock(item) {
			log.Printf("Order %s: could not restore stock for product %s (%s, EU %v), item skipped",
				id, item.ProductID, item.SelectedColor, item.SelectedSize.EU)
		}
	}

	if err := s.orderRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	log.Printf("Order %s deleted, stock restored", id)
	return nil
}

// restoreItemStock re-resolves an item snapshot against the current product
// and releases its quantity. It reports whether the restoration happened.
func (s *OrderService) restoreItemStock(item models.OrderItem) bool {
	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return false
	}
	variationIdx, ok := product.FindVariation(item.SelectedColor)
	if !ok {
		return false
	}
	sizeIdx, ok := product.Variations[variationIdx].FindSizeOption(item.SelectedSize)
	if !ok {
		return false
	}
	if err := s.productRepo.Release(item.ProductID, variationIdx, sizeIdx, item.Quantity); err != nil {
		log.Printf("Failed to release stock for product %s: %v", item.ProductID, err)
		return false
	}
	return true
}

// UpdateStatus moves an order to a new lifecycle status. Transitions only go
// forward (Pending to Shipped to Completed); inventory is not touched.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, &OrderInvalidError{
			Message: fmt.Sprintf("Status must be one of: %s, %s, %s",
				models.StatusPending, models.StatusShipped, models.StatusCompleted),
		}
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, status) {
		return nil, &InvalidStateError{
			Message: fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status),
		}
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// GetOrder retrieves a single order.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListOrders returns a page of orders plus the total match count.
func (s *OrderService) ListOrders(opts repositories.OrderListOptions) ([]models.Order, int64, error) {
	return s.orderRepo.List(opts)
}

// StatsSummary aggregates order counts per status and revenue over shipped
// and completed orders.
func (s *OrderService) StatsSummary() (*models.OrderStats, error) {
	stats, err := s.orderRepo.Stats("")
	if err != nil {
		return nil, err
	}
	stats.TotalSpent = 0 // spend is a user-scoped figure
	return stats, nil
}

// UserOrders returns a page of the orders belonging to a customer email.
func (s *OrderService) UserOrders(email string, opts repositories.OrderListOptions) ([]models.Order, int64, error) {
	opts.Email = email
	return s.orderRepo.List(opts)
}

// UserOrder retrieves one order, but only if it belongs to the given email.
func (s *OrderService) UserOrder(email, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.CustomerInfo.Email, email) {
		// Do not reveal whether the order exists to other users.
		return nil, repositories.ErrOrderNotFound
	}
	return order, nil
}

// UserStatsSummary is the per-customer statistics view.
type UserStatsSummary struct {
	models.OrderStats
	RecentOrders []models.Order `json:"recentOrders"`
	UserEmail    string         `json:"userEmail"`
}

// UserStats aggregates a customer's order counts, total spend (including
// shipping fees) and most recent orders.
func (s *OrderService) UserStats(email string) (*UserStatsSummary, error) {
	stats, err := s.orderRepo.Stats(email)
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.Recent(email, 5)
	if err != nil {
		return nil, err
	}
	return &UserStatsSummary{
		OrderStats:   *stats,
		RecentOrders: recent,
		UserEmail:    email,
	}, nil
}
