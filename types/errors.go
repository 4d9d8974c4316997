package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Every operation fails with
// one of these (possibly wrapped with detail) or with a ValidationError
// before it mutates any state.
var (
	// Lookup errors
	ErrNotFound         = errors.New("tally: not found")
	ErrProposalNotFound = errors.New("tally: proposal not found")

	// Authorization errors
	ErrUnauthorized  = errors.New("tally: unauthorized")
	ErrUnknownTarget = errors.New("tally: process is not an authorized external target")

	// Ledger state errors
	ErrNotInitialized      = errors.New("tally: token not initialized")
	ErrNoBalance           = errors.New("tally: address holds no balance")
	ErrInsufficientBalance = errors.New("tally: insufficient balance")

	// Conflict errors
	ErrAlreadyInitialized = errors.New("tally: token already initialized")
	ErrSelfTransfer       = errors.New("tally: sender and recipient are the same address")
	ErrDuplicateApproval  = errors.New("tally: approver already approved this proposal")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tally: validation failed for %s: %s", e.Field, e.Message)
}

// IsValidation returns true if the error is a validation failure.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// IsAuthorization returns true if the error is an authorization failure.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrUnknownTarget)
}

// IsState returns true if the error reports a ledger state that cannot
// support the operation (missing or insufficient balance, uninitialized
// token).
func IsState(err error) bool {
	return errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrNoBalance) ||
		errors.Is(err, ErrInsufficientBalance)
}

// IsConflict returns true if the error reports an operation that contradicts
// existing state rather than missing state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized) ||
		errors.Is(err, ErrSelfTransfer) ||
		errors.Is(err, ErrDuplicateApproval)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProposalNotFound)
}
