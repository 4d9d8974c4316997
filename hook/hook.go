// Package hook provides an extensible hook system for token processes.
// Hooks observe ledger events after they commit; a failing hook is
// logged and never rolls the event back.
package hook

import (
	"context"

	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

// Hook is the base interface that all hooks must implement.
type Hook interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Ledger lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called once when the token is initialized.
type OnInit interface {
	Hook
	OnInit(ctx context.Context, meta token.Metadata, balances map[string]types.Quantity) error
}

// OnMint is called after a mint commits.
type OnMint interface {
	Hook
	OnMint(ctx context.Context, caller string, mv token.Movement) error
}

// OnBurn is called after an approved burn executes.
type OnBurn interface {
	Hook
	OnBurn(ctx context.Context, p proposal.Proposal, mv token.Movement) error
}

// OnTransfer is called after an internal transfer commits.
type OnTransfer interface {
	Hook
	OnTransfer(ctx context.Context, tr token.Transfer) error
}

// OnExternalTransfer is called after an external debit commits.
type OnExternalTransfer interface {
	Hook
	OnExternalTransfer(ctx context.Context, recipient, process string, mv token.Movement) error
}

// ──────────────────────────────────────────────────
// Proposal hooks
// ──────────────────────────────────────────────────

// OnBurnRequest is called when a burn proposal is created.
type OnBurnRequest interface {
	Hook
	OnBurnRequest(ctx context.Context, p proposal.Proposal) error
}

// OnApproval is called after an approval is recorded, whether or not
// it reached quorum.
type OnApproval interface {
	Hook
	OnApproval(ctx context.Context, approver string, ap proposal.Approval) error
}
