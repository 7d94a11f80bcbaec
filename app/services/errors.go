package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every service; handlers map them onto HTTP
// status codes.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidState        = errors.New("invalid state")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// InsufficientStockError aborts a sale when any ingredient's supplier cannot
// cover the pieces required.
type InsufficientStockError struct {
	SupplierName string
	Required     float64
	Available    float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for supplier %s: required %v, available %v",
		e.SupplierName, e.Required, e.Available)
}

// NotFoundf wraps ErrNotFound with a formatted description.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidArgumentf wraps ErrInvalidArgument with a formatted description.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// InvalidStatef wraps ErrInvalidState with a formatted description.
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}
