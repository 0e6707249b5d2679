package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a product identifier is empty or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrMissingTitle is returned when a product has no string title to derive
	// search keywords from.
	ErrMissingTitle = errors.New("product has no title")
)
