package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInsufficientBalance is returned when a balance floor rejects a delta.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
