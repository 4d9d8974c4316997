// Package metrics provides a metrics extension for token processes
// that records lifecycle event counts via Prometheus collectors.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/tally/hook"
	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

// Ensure Metrics implements required interfaces.
var (
	_ hook.Hook               = (*Metrics)(nil)
	_ hook.OnInit             = (*Metrics)(nil)
	_ hook.OnMint             = (*Metrics)(nil)
	_ hook.OnBurn             = (*Metrics)(nil)
	_ hook.OnTransfer         = (*Metrics)(nil)
	_ hook.OnExternalTransfer = (*Metrics)(nil)
	_ hook.OnBurnRequest      = (*Metrics)(nil)
	_ hook.OnApproval         = (*Metrics)(nil)
)

// Metrics records system-wide lifecycle metrics. Register it as a
// process hook to automatically track token operations.
//
// Quantities are deliberately not exported as gauges: token supplies
// exceed float64 precision, so only event counts are recorded.
type Metrics struct {
	// Supply metrics
	Inits prometheus.Counter
	Mints prometheus.Counter
	Burns prometheus.Counter

	// Transfer metrics
	Transfers         prometheus.Counter
	ExternalTransfers prometheus.Counter

	// Governance metrics
	BurnRequests   prometheus.Counter
	Approvals      prometheus.Counter
	QuorumsReached prometheus.Counter
}

// New creates a Metrics hook with its collectors registered against
// reg. Pass prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Inits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_token_inits_total",
			Help: "Token initializations.",
		}),
		Mints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_token_mints_total",
			Help: "Committed mints.",
		}),
		Burns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_token_burns_total",
			Help: "Executed burns.",
		}),
		Transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_token_transfers_total",
			Help: "Committed internal transfers.",
		}),
		ExternalTransfers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_token_external_transfers_total",
			Help: "Committed external debits.",
		}),
		BurnRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_proposal_burn_requests_total",
			Help: "Burn proposals created.",
		}),
		Approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_proposal_approvals_total",
			Help: "Approvals recorded.",
		}),
		QuorumsReached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tally_proposal_quorums_reached_total",
			Help: "Proposals that crossed their approval quorum.",
		}),
	}

	reg.MustRegister(
		m.Inits,
		m.Mints,
		m.Burns,
		m.Transfers,
		m.ExternalTransfers,
		m.BurnRequests,
		m.Approvals,
		m.QuorumsReached,
	)
	return m
}

// Name implements hook.Hook.
func (m *Metrics) Name() string { return "metrics" }

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnInit implements hook.OnInit.
func (m *Metrics) OnInit(_ context.Context, _ token.Metadata, _ map[string]types.Quantity) error {
	m.Inits.Inc()
	return nil
}

// OnMint implements hook.OnMint.
func (m *Metrics) OnMint(_ context.Context, _ string, _ token.Movement) error {
	m.Mints.Inc()
	return nil
}

// OnBurn implements hook.OnBurn.
func (m *Metrics) OnBurn(_ context.Context, _ proposal.Proposal, _ token.Movement) error {
	m.Burns.Inc()
	return nil
}

// OnTransfer implements hook.OnTransfer.
func (m *Metrics) OnTransfer(_ context.Context, _ token.Transfer) error {
	m.Transfers.Inc()
	return nil
}

// OnExternalTransfer implements hook.OnExternalTransfer.
func (m *Metrics) OnExternalTransfer(_ context.Context, _, _ string, _ token.Movement) error {
	m.ExternalTransfers.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Proposal hooks
// ──────────────────────────────────────────────────

// OnBurnRequest implements hook.OnBurnRequest.
func (m *Metrics) OnBurnRequest(_ context.Context, _ proposal.Proposal) error {
	m.BurnRequests.Inc()
	return nil
}

// OnApproval implements hook.OnApproval.
func (m *Metrics) OnApproval(_ context.Context, _ string, ap proposal.Approval) error {
	m.Approvals.Inc()
	if ap.ReachedQuorum {
		m.QuorumsReached.Inc()
	}
	return nil
}
