package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCopyType is returned when a copy type is outside the known set.
	ErrInvalidCopyType = errors.New("invalid copy type")

	// ErrInvalidCategory is returned when a product category is not recognized.
	ErrInvalidCategory = errors.New("invalid product category")

	// ErrEmptyProductID is returned when a product has no identifier.
	ErrEmptyProductID = errors.New("product ID cannot be empty")

	// ErrEmptyProductName is returned when a product has no name.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrNegativePrice is returned when a product price is below zero.
	ErrNegativePrice = errors.New("product price cannot be negative")
)
