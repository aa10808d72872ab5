package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrCapacity        = errors.New("capacity error")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Capacity(format string, args ...any) error {
	return &Error{Kind: ErrCapacity, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return &Error{Kind: ErrUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// ErrInsufficientStock is returned by the conditional stock decrement when
// no row matched.
var ErrInsufficientStock = errors.New("insufficient stock")

var (
	ErrOrderNotFound   = NotFound("order not found")
	ErrProductNotFound = NotFound("product not found")
	ErrUserNotFound    = NotFound("user not found")
	ErrCartNotFound    = NotFound("cart not found")
	ErrItemNotFound    = NotFound("item not found in cart")
	ErrEmptyCart       = Validation("cart is empty")
	ErrEmailTaken      = Validation("email already registered")
)
