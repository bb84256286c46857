package application

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrDuplicateSKU        = errors.New("sku already in use")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPersistence         = errors.New("persistence failure")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrImageStoreDisabled  = errors.New("image storage not configured")
)

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
