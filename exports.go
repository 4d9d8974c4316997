package tally

import "github.com/xraph/tally/types"

// Re-export common types for convenience so users don't have to import types package.

// Quantity is re-exported from types package.
type Quantity = types.Quantity

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Quantity constructors
var (
	Zero              = types.Zero
	FromUint64        = types.FromUint64
	FromInt64         = types.FromInt64
	ParseQuantity     = types.Parse
	MustParseQuantity = types.MustParse
	Sum               = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
