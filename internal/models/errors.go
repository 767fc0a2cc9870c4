package models

import (
	"errors"
	"fmt"
)

// Domain errors. Services wrap these with detail; the HTTP layer maps them with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("item is not available")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError describes a single rejected request field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports every ValidationError as ErrInvalidInput
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
