package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

func addr(c byte) string {
	return strings.Repeat(string(c), 43)
}

func TestName(t *testing.T) {
	m := New(prometheus.NewRegistry())
	if m.Name() != "metrics" {
		t.Errorf("name: got %q", m.Name())
	}
}

func TestRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	// Counters at zero are still registered and gatherable.
	if len(families) != 8 {
		t.Errorf("metric families: got %d, want 8", len(families))
	}
}

func TestCountsOperations(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	mv := token.Movement{Target: addr('a'), Quantity: types.FromUint64(1)}
	if err := m.OnInit(ctx, token.Metadata{}, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.OnMint(ctx, addr('m'), mv); err != nil {
		t.Fatal(err)
	}
	if err := m.OnMint(ctx, addr('m'), mv); err != nil {
		t.Fatal(err)
	}
	if err := m.OnBurn(ctx, proposal.Proposal{}, mv); err != nil {
		t.Fatal(err)
	}
	if err := m.OnTransfer(ctx, token.Transfer{}); err != nil {
		t.Fatal(err)
	}
	if err := m.OnExternalTransfer(ctx, addr('r'), addr('x'), mv); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.Inits); got != 1 {
		t.Errorf("inits: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Mints); got != 2 {
		t.Errorf("mints: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Burns); got != 1 {
		t.Errorf("burns: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Transfers); got != 1 {
		t.Errorf("transfers: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ExternalTransfers); got != 1 {
		t.Errorf("external transfers: got %v, want 1", got)
	}
}

func TestQuorumCounting(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	if err := m.OnBurnRequest(ctx, proposal.Proposal{}); err != nil {
		t.Fatal(err)
	}
	if err := m.OnApproval(ctx, addr('1'), proposal.Approval{}); err != nil {
		t.Fatal(err)
	}
	if err := m.OnApproval(ctx, addr('2'), proposal.Approval{ReachedQuorum: true}); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.BurnRequests); got != 1 {
		t.Errorf("burn requests: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Approvals); got != 2 {
		t.Errorf("approvals: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QuorumsReached); got != 1 {
		t.Errorf("quorums reached: got %v, want 1", got)
	}
}
