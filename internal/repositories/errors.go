package repositories

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by every repository implementation. Callers match
// them with errors.Is instead of comparing message strings.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("variation not found")
	ErrSizeNotFound        = errors.New("size option not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrShippingFeeNotFound = errors.New("shipping rule not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrDuplicateCountry    = errors.New("shipping rule for country already exists")
)

// InsufficientStockError reports a failed reservation together with the
// quantity still available for the requested size option.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductID, e.Requested, e.Available)
}
