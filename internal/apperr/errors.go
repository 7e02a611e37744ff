// Package apperr defines the error taxonomy shared by the trading core.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the trading core. Handlers map these to
// client-facing payloads; everything else is treated as an internal error.
var (
	ErrInvalidSymbol     = errors.New("invalid trading symbol")
	ErrInvalidSide       = errors.New("invalid trade side")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNoQuoteAvailable  = errors.New("no price data available")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ValidationError reports a rejected trade request parameter.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidation wraps one of the sentinel validation errors with the offending
// field and value.
func NewValidation(field, value string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// FetchError reports a failed venue fetch. It is logged at the aggregation
// boundary and never surfaces to trade callers.
type FetchError struct {
	Venue string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("venue %s: %v", e.Venue, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsClientError reports whether err should be surfaced to the API caller as a
// bad request rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSymbol) ||
		errors.Is(err, ErrInvalidSide) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrNoQuoteAvailable) ||
		errors.Is(err, ErrInsufficientFunds)
}
