// Package common defines shared constants and sentinel errors used across
// BudgetGuard server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors (non-positive amounts, blank fields).
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmergencyPINRequired is returned by the commit path when a payment
	// enters the emergency zone without a matching PIN. Distinct from
	// ErrUnauthorized so the API layer can ask for the PIN specifically.
	ErrEmergencyPINRequired = errors.New("emergency PIN required")

	// ErrInsufficientCoins is returned by a coin debit that would drive the
	// balance negative.
	ErrInsufficientCoins = errors.New("insufficient coins")
)
