// Package audit bridges token process events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend
// on any concrete audit store. Callers inject a RecorderFunc adapter
// that bridges to their backend at wiring time.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xraph/tally/hook"
	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

// Compile-time interface checks.
var (
	_ hook.Hook               = (*Extension)(nil)
	_ hook.OnInit             = (*Extension)(nil)
	_ hook.OnMint             = (*Extension)(nil)
	_ hook.OnBurn             = (*Extension)(nil)
	_ hook.OnTransfer         = (*Extension)(nil)
	_ hook.OnExternalTransfer = (*Extension)(nil)
	_ hook.OnBurnRequest      = (*Extension)(nil)
	_ hook.OnApproval         = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// Event is a local representation of an audit event. Quantities appear
// in Metadata as decimal strings, never native numbers.
type Event struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Extension bridges token process events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the
// provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements hook.Hook.
func (e *Extension) Name() string { return "audit" }

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnInit implements hook.OnInit.
func (e *Extension) OnInit(ctx context.Context, meta token.Metadata, balances map[string]types.Quantity) error {
	return e.record(ctx, ActionTokenInitialized, SeverityInfo, OutcomeSuccess,
		ResourceToken, meta.Ticker, CategorySupply, nil,
		"name", meta.Name,
		"ticker", meta.Ticker,
		"denomination", strconv.Itoa(meta.Denomination),
		"holders", len(balances),
	)
}

// OnMint implements hook.OnMint.
func (e *Extension) OnMint(ctx context.Context, caller string, mv token.Movement) error {
	return e.record(ctx, ActionTokenMinted, SeverityInfo, OutcomeSuccess,
		ResourceToken, mv.Target, CategorySupply, nil,
		"caller", caller,
		"target", mv.Target,
		"quantity", mv.Quantity.String(),
		"balance_new", mv.BalanceNew.String(),
	)
}

// OnBurn implements hook.OnBurn.
func (e *Extension) OnBurn(ctx context.Context, p proposal.Proposal, mv token.Movement) error {
	return e.record(ctx, ActionTokenBurned, SeverityInfo, OutcomeSuccess,
		ResourceToken, p.ID.String(), CategorySupply, nil,
		"requestor", p.Requestor,
		"quantity", mv.Quantity.String(),
		"balance_new", mv.BalanceNew.String(),
		"approvals", len(p.Approvals),
	)
}

// OnTransfer implements hook.OnTransfer.
func (e *Extension) OnTransfer(ctx context.Context, tr token.Transfer) error {
	return e.record(ctx, ActionTokenTransferred, SeverityInfo, OutcomeSuccess,
		ResourceToken, tr.Sender, CategoryTransfer, nil,
		"sender", tr.Sender,
		"recipient", tr.Recipient,
		"quantity", tr.Quantity.String(),
	)
}

// OnExternalTransfer implements hook.OnExternalTransfer.
func (e *Extension) OnExternalTransfer(ctx context.Context, recipient, process string, mv token.Movement) error {
	return e.record(ctx, ActionTokenDebited, SeverityInfo, OutcomeSuccess,
		ResourceToken, mv.Target, CategoryTransfer, nil,
		"sender", mv.Target,
		"recipient", recipient,
		"process", process,
		"quantity", mv.Quantity.String(),
	)
}

// ──────────────────────────────────────────────────
// Proposal hooks
// ──────────────────────────────────────────────────

// OnBurnRequest implements hook.OnBurnRequest.
func (e *Extension) OnBurnRequest(ctx context.Context, p proposal.Proposal) error {
	return e.record(ctx, ActionProposalCreated, SeverityInfo, OutcomeSuccess,
		ResourceProposal, p.ID.String(), CategoryGovernance, nil,
		"kind", string(p.Kind),
		"requestor", p.Requestor,
		"quantity", p.Quantity.String(),
	)
}

// OnApproval implements hook.OnApproval.
func (e *Extension) OnApproval(ctx context.Context, approver string, ap proposal.Approval) error {
	return e.record(ctx, ActionProposalApproved, SeverityInfo, OutcomeSuccess,
		ResourceProposal, ap.Proposal.ID.String(), CategoryGovernance, nil,
		"kind", string(ap.Proposal.Kind),
		"approver", approver,
		"approvals", len(ap.Proposal.Approvals),
		"reached_quorum", ap.ReachedQuorum,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &Event{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
