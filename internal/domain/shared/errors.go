// Package shared holds the request, result, and error types exchanged between
// the transaction engine, its repositories, and the HTTP surface.
package shared

import (
	"errors"
	"fmt"
)

// AuthenticationError indicates the request carries no verified caller identity
type AuthenticationError struct {
	Reason string
}

func (e AuthenticationError) Error() string {
	return "not authenticated: " + e.Reason
}

// Is implements the errors.Is interface for AuthenticationError
func (e AuthenticationError) Is(target error) bool {
	_, ok := target.(AuthenticationError)
	return ok
}

// AuthorizationError indicates the caller lacks the role or station membership
// required for the operation
type AuthorizationError struct {
	OperatorID string
	StationID  string
	Reason     string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("operator %s not authorized for station %s: %s", e.OperatorID, e.StationID, e.Reason)
}

// Is implements the errors.Is interface for AuthorizationError
func (e AuthorizationError) Is(target error) bool {
	_, ok := target.(AuthorizationError)
	return ok
}

// ValidationError indicates malformed or out-of-range request input
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is implements the errors.Is interface for ValidationError
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	return ok
}

// PreconditionError indicates a required configuration or referenced entity
// is missing, so the request cannot be attempted at all
type PreconditionError struct {
	Missing string
}

func (e PreconditionError) Error() string {
	return "precondition failed: missing " + e.Missing
}

// Is implements the errors.Is interface for PreconditionError
func (e PreconditionError) Is(target error) bool {
	_, ok := target.(PreconditionError)
	return ok
}

// InsufficientPointsError indicates the customer's balance cannot cover the
// requested redemption
type InsufficientPointsError struct {
	Balance   int64
	Requested int64
}

func (e InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: balance %d, requested %d", e.Balance, e.Requested)
}

// Is implements the errors.Is interface for InsufficientPointsError
func (e InsufficientPointsError) Is(target error) bool {
	_, ok := target.(InsufficientPointsError)
	return ok
}

// IsBusinessError reports whether err is one of the business-rule failures
// that must never be retried by the commit loop.
func IsBusinessError(err error) bool {
	return errors.Is(err, AuthenticationError{}) ||
		errors.Is(err, AuthorizationError{}) ||
		errors.Is(err, ValidationError{}) ||
		errors.Is(err, PreconditionError{}) ||
		errors.Is(err, InsufficientPointsError{})
}
