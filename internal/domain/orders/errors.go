package orders

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrMealNotFound      = errors.New("meal not found")
	ErrInvalidInput      = errors.New("invalid order")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("order not accessible")
	ErrStatusConflict    = errors.New("order status changed concurrently")
)
