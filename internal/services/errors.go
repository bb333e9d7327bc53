package services

// OrderInvalidError is a business-rule failure during order handling: an
// unavailable shipping destination, an unresolvable product/color/size, or
// insufficient stock. The message is human-readable and names the offending
// product where applicable.
type OrderInvalidError struct {
	Message string
	Err     error // underlying cause, if any
}

func (e *OrderInvalidError) Error() string { return e.Message }

func (e *OrderInvalidError) Unwrap() error { return e.Err }

// InvalidStateError reports an illegal status transition or the deletion of
// an order that is no longer pending.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }
