package services

import (
	"errors"
	"fmt"

	"luxedrive/internal/repositories/interfaces"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted")
	ErrNotFound        = errors.New("not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrConflict        = errors.New("modified concurrently")
	ErrPaymentDeclined = errors.New("payment declined")
	ErrPaymentTimedOut = errors.New("payment timed out")

	// ErrCheckoutInProgress is a conflict: another request already holds
	// the cart for payment.
	ErrCheckoutInProgress = fmt.Errorf("%w: checkout already in progress", ErrConflict)
)

// ValidationError names the offending field. errors.Is(err, ErrValidation)
// holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// fromRepository maps repository sentinels onto the service taxonomy and
// keeps the underlying error in the chain.
func fromRepository(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, interfaces.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, interfaces.ErrConflict), errors.Is(err, interfaces.ErrExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
