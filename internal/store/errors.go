package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored or after being loaded.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction cannot be started
	// or committed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrProductNotFound indicates that no product has the requested ID.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrModelNotFound indicates that the requested model ID is not offered.
	ErrModelNotFound = fmt.Errorf("%w: model", ErrNotFound)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError adds entity and operation context to a storage failure.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap supports errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
