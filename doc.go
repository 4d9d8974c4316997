// Package tally provides a fungible-token ledger for message-driven Go processes.
//
// Tally is designed as a library, not a service. A host actor runtime delivers
// inbound messages one at a time; Tally normalizes each into an action,
// mutates the ledger, and hands outbound notices back to the host. It
// provides:
//
//   - Arbitrary-precision balance arithmetic (supplies beyond int64 never
//     overflow or round)
//   - Mint, burn, transfer, and query operations with fail-before-mutate
//     validation
//   - Multi-party burn governance: proposals, authorized approvers, quorum
//   - An allow-list gate for debit-only transfers to external processes
//   - Credit, debit, and burn-request notices with all numbers as decimal
//     strings
//   - Pluggable event hooks for audit trails and metrics
//
// # Quick Start
//
// Create a process with the host identity and wire its outbound transport:
//
//	import (
//	    "github.com/xraph/tally"
//	    "github.com/xraph/tally/notice"
//	    "github.com/xraph/tally/token"
//	)
//
//	p, err := tally.New(self,
//	    tally.WithSender(notice.SenderFunc(send)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = p.Init(ctx, token.Metadata{
//	    Name:         "Points",
//	    Ticker:       "PNT",
//	    Denomination: 12,
//	}, nil)
//
// Then feed it inbound messages:
//
//	err = p.Handle(ctx, tally.Message{
//	    From: caller,
//	    Tags: map[string]string{
//	        "Action":    "Transfer",
//	        "Recipient": recipient,
//	        "Quantity":  "1000000000000",
//	    },
//	})
//
// A successful transfer sends a Debit-Notice to the sender and a
// Credit-Notice to the recipient; a failed one mutates nothing and sends no
// success notice.
//
// # Addresses and Quantities
//
// Every account, process, and approver is a 43-character identifier drawn
// from [A-Za-z0-9_-]. Every amount is a types.Quantity, an immutable
// arbitrary-precision integer; quantities cross the wire as decimal strings,
// never native numbers, so precision survives end to end.
//
// # Burn Governance
//
// Burns are gated behind a quorum of authorized approvers. A Burn message
// with Action-Type NEW_REQUEST stores a pending proposal and fans a
// Burn-Request-Notice out to every burner; each burner answers with
// Action-Type APPROVAL. The approval that reaches the configured quorum
// executes the burn exactly once and sends a single Debit-Notice to the
// requestor.
//
// # Concurrency
//
// The intended host delivers one message at a time. Each component still
// guards its state with a mutex held across whole operations, so a
// concurrent host observes every mutation as atomic.
//
// # TypeID
//
// Proposals use TypeID for globally unique, type-safe identifiers:
//
//	burn_01h2xcejqtf2nbrexx3vqjhp41  // Burn request ID
//	mint_01h2xcejqtf2nbrexx3vqjhp41  // Mint request ID
//
// TypeIDs are K-sortable, giving proposals natural time-ordering.
package tally
