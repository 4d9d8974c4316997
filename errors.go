package tally

import (
	"errors"

	"github.com/xraph/tally/types"
)

// Dispatch-layer sentinel errors.
var (
	// ErrUnknownAction reports an inbound message whose Action tag
	// names no handler.
	ErrUnknownAction = errors.New("tally: unknown action")
)

// Sentinel errors re-exported from the types package so callers need a
// single import.
var (
	// Lookup errors
	ErrNotFound         = types.ErrNotFound
	ErrProposalNotFound = types.ErrProposalNotFound

	// Authorization errors
	ErrUnauthorized  = types.ErrUnauthorized
	ErrUnknownTarget = types.ErrUnknownTarget

	// Ledger state errors
	ErrNotInitialized      = types.ErrNotInitialized
	ErrNoBalance           = types.ErrNoBalance
	ErrInsufficientBalance = types.ErrInsufficientBalance

	// Conflict errors
	ErrAlreadyInitialized = types.ErrAlreadyInitialized
	ErrSelfTransfer       = types.ErrSelfTransfer
	ErrDuplicateApproval  = types.ErrDuplicateApproval
)

// ValidationError is re-exported from the types package.
type ValidationError = types.ValidationError

// Classification predicates, one per error class.
var (
	IsValidation    = types.IsValidation
	IsAuthorization = types.IsAuthorization
	IsState         = types.IsState
	IsConflict      = types.IsConflict
	IsNotFound      = types.IsNotFound
)
