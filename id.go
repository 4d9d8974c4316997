package tally

import "github.com/xraph/tally/id"

// ID is the identifier type for all Tally proposals.
type ID = id.ID

// Prefix identifies the proposal kind encoded in a TypeID.
type Prefix = id.Prefix
