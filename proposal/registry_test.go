package proposal

import (
	"errors"
	"strings"
	"testing"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

func addr(c byte) string {
	return strings.Repeat(string(c), 43)
}

func TestCanBurn(t *testing.T) {
	r := NewRegistry(WithBurners(addr('a'), addr('b')))

	if err := r.CanBurn(addr('a')); err != nil {
		t.Errorf("member: %v", err)
	}
	err := r.CanBurn(addr('z'))
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !types.IsAuthorization(err) {
		t.Errorf("expected authorization class, got %v", err)
	}
}

func TestCanMint(t *testing.T) {
	r := NewRegistry(WithMinters(addr('m')))

	if err := r.CanMint(addr('m')); err != nil {
		t.Errorf("member: %v", err)
	}
	if err := r.CanMint(addr('a')); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateBurnRequest(t *testing.T) {
	r := NewRegistry()
	requestor := addr('r')

	p, err := r.CreateBurnRequest(requestor, types.FromUint64(50))
	if err != nil {
		t.Fatalf("CreateBurnRequest: %v", err)
	}
	if p.Kind != KindBurn {
		t.Errorf("kind: got %q, want %q", p.Kind, KindBurn)
	}
	if p.ID.Prefix() != id.PrefixBurn {
		t.Errorf("id prefix: got %q, want %q", p.ID.Prefix(), id.PrefixBurn)
	}
	if p.Approved {
		t.Error("new proposal must be pending")
	}
	if len(p.Approvals) != 0 {
		t.Errorf("new proposal approvals: got %v, want empty", p.Approvals)
	}

	got, err := r.Get(KindBurn, requestor, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Quantity.Equal(types.FromUint64(50)) {
		t.Errorf("stored quantity: got %s, want 50", got.Quantity)
	}
}

func TestCreateValidation(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name      string
		requestor string
		quantity  types.Quantity
	}{
		{"bad requestor", "abc", types.FromUint64(1)},
		{"zero quantity", addr('r'), types.Zero()},
		{"negative quantity", addr('r'), types.FromInt64(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.CreateBurnRequest(tt.requestor, tt.quantity); !types.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	requestor := addr('r')
	p, err := r.CreateBurnRequest(requestor, types.FromUint64(10))
	if err != nil {
		t.Fatalf("CreateBurnRequest: %v", err)
	}

	tests := []struct {
		name      string
		kind      Kind
		requestor string
		id        id.ID
	}{
		{"unknown requestor", KindBurn, addr('x'), p.ID},
		{"unknown id", KindBurn, requestor, id.NewBurnRequestID()},
		{"kind mismatch", KindMint, requestor, p.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Get(tt.kind, tt.requestor, tt.id)
			if !errors.Is(err, types.ErrProposalNotFound) {
				t.Errorf("expected ErrProposalNotFound, got %v", err)
			}
			if !types.IsNotFound(err) {
				t.Errorf("expected not-found class, got %v", err)
			}
		})
	}
}

func TestGetSnapshot(t *testing.T) {
	r := NewRegistry(WithBurners(addr('a')))
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(10))

	got, err := r.Get(KindBurn, addr('r'), p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Approvals = append(got.Approvals, addr('z'))

	fresh, _ := r.Get(KindBurn, addr('r'), p.ID)
	if len(fresh.Approvals) != 0 {
		t.Error("mutating a returned snapshot must not affect the stored proposal")
	}
}

func TestApproveSingleRequirement(t *testing.T) {
	r := NewRegistry(WithBurners(addr('a')))
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(5))

	ap, err := r.ApproveBurnRequest(addr('a'), addr('r'), p.ID)
	if err != nil {
		t.Fatalf("ApproveBurnRequest: %v", err)
	}
	if !ap.Proposal.Approved {
		t.Error("default requirement of 1: single approval must approve")
	}
	if !ap.ReachedQuorum {
		t.Error("first approval must report the quorum crossing")
	}
}

func TestApproveQuorum(t *testing.T) {
	first, second := addr('a'), addr('b')
	r := NewRegistry(
		WithBurners(first, second),
		WithRequiredBurnApprovals(2),
	)
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(1))

	ap, err := r.ApproveBurnRequest(first, addr('r'), p.ID)
	if err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if ap.Proposal.Approved || ap.ReachedQuorum {
		t.Error("one of two approvals must not approve")
	}

	ap, err = r.ApproveBurnRequest(second, addr('r'), p.ID)
	if err != nil {
		t.Fatalf("second approval: %v", err)
	}
	if !ap.Proposal.Approved {
		t.Error("second of two approvals must approve")
	}
	if !ap.ReachedQuorum {
		t.Error("second approval must report the quorum crossing")
	}
	if got := ap.Proposal.Approvals; len(got) != 2 || got[0] != first || got[1] != second {
		t.Errorf("approvals must keep arrival order: got %v", got)
	}

	// A later approval appends but never re-crosses quorum.
	ap, err = r.ApproveBurnRequest(first, addr('r'), p.ID)
	if err != nil {
		t.Fatalf("third approval: %v", err)
	}
	if ap.ReachedQuorum {
		t.Error("quorum crossing must be reported at most once per proposal")
	}
	if !ap.Proposal.Approved {
		t.Error("approved is terminal")
	}
}

func TestApproveUnauthorized(t *testing.T) {
	r := NewRegistry(WithBurners(addr('a')))
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(1))

	_, err := r.ApproveBurnRequest(addr('z'), addr('r'), p.ID)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	got, _ := r.Get(KindBurn, addr('r'), p.ID)
	if len(got.Approvals) != 0 {
		t.Error("rejected approval must not be recorded")
	}
}

func TestApproveNotFound(t *testing.T) {
	r := NewRegistry(WithBurners(addr('a')), WithMinters(addr('a')))
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(1))

	if _, err := r.ApproveBurnRequest(addr('a'), addr('r'), id.NewBurnRequestID()); !errors.Is(err, types.ErrProposalNotFound) {
		t.Errorf("unknown id: expected ErrProposalNotFound, got %v", err)
	}
	if _, err := r.ApproveBurnRequest(addr('a'), addr('x'), p.ID); !errors.Is(err, types.ErrProposalNotFound) {
		t.Errorf("unknown requestor: expected ErrProposalNotFound, got %v", err)
	}
	if _, err := r.ApproveMintRequest(addr('a'), addr('r'), p.ID); !errors.Is(err, types.ErrProposalNotFound) {
		t.Errorf("kind mismatch: expected ErrProposalNotFound, got %v", err)
	}
}

func TestDuplicateApprovalsCountLiterally(t *testing.T) {
	r := NewRegistry(
		WithBurners(addr('a'), addr('b')),
		WithRequiredBurnApprovals(2),
	)
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(1))

	// The same approver twice reaches a quorum of two.
	if _, err := r.ApproveBurnRequest(addr('a'), addr('r'), p.ID); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	ap, err := r.ApproveBurnRequest(addr('a'), addr('r'), p.ID)
	if err != nil {
		t.Fatalf("repeat approval: %v", err)
	}
	if !ap.Proposal.Approved || !ap.ReachedQuorum {
		t.Error("duplicate approvals count toward quorum by default")
	}
}

func TestDistinctApprovers(t *testing.T) {
	r := NewRegistry(
		WithBurners(addr('a'), addr('b')),
		WithRequiredBurnApprovals(2),
		WithDistinctApprovers(),
	)
	p, _ := r.CreateBurnRequest(addr('r'), types.FromUint64(1))

	if _, err := r.ApproveBurnRequest(addr('a'), addr('r'), p.ID); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	_, err := r.ApproveBurnRequest(addr('a'), addr('r'), p.ID)
	if !errors.Is(err, types.ErrDuplicateApproval) {
		t.Fatalf("expected ErrDuplicateApproval, got %v", err)
	}
	if !types.IsConflict(err) {
		t.Errorf("expected conflict class, got %v", err)
	}

	got, _ := r.Get(KindBurn, addr('r'), p.ID)
	if len(got.Approvals) != 1 {
		t.Errorf("rejected duplicate must not be recorded: got %v", got.Approvals)
	}
	if got.Approved {
		t.Error("proposal must stay pending after a rejected duplicate")
	}
}

func TestMintWorkflow(t *testing.T) {
	minter := addr('m')
	r := NewRegistry(WithMinters(minter), WithRequiredMintApprovals(1))

	p, err := r.CreateMintRequest(addr('r'), types.FromUint64(1000))
	if err != nil {
		t.Fatalf("CreateMintRequest: %v", err)
	}
	if p.ID.Prefix() != id.PrefixMint {
		t.Errorf("id prefix: got %q, want %q", p.ID.Prefix(), id.PrefixMint)
	}

	ap, err := r.ApproveMintRequest(minter, addr('r'), p.ID)
	if err != nil {
		t.Fatalf("ApproveMintRequest: %v", err)
	}
	if !ap.ReachedQuorum {
		t.Error("single required approval must reach quorum")
	}
}

func TestMembershipSorted(t *testing.T) {
	r := NewRegistry(
		WithBurners(addr('c'), addr('a'), addr('b')),
		WithMinters(addr('z'), addr('m')),
	)

	burners := r.Burners()
	want := []string{addr('a'), addr('b'), addr('c')}
	if len(burners) != len(want) {
		t.Fatalf("burners: got %d entries, want %d", len(burners), len(want))
	}
	for i := range want {
		if burners[i] != want[i] {
			t.Errorf("burners[%d]: got %s, want %s", i, burners[i], want[i])
		}
	}

	minters := r.Minters()
	if len(minters) != 2 || minters[0] != addr('m') || minters[1] != addr('z') {
		t.Errorf("minters not sorted: %v", minters)
	}
}

func TestRequirements(t *testing.T) {
	r := NewRegistry(WithRequiredBurnApprovals(3), WithRequiredMintApprovals(2))
	if got := r.RequiredBurnApprovals(); got != 3 {
		t.Errorf("RequiredBurnApprovals: got %d, want 3", got)
	}
	if got := r.RequiredMintApprovals(); got != 2 {
		t.Errorf("RequiredMintApprovals: got %d, want 2", got)
	}

	// Non-positive requirements keep the default of one.
	r = NewRegistry(WithRequiredBurnApprovals(0), WithRequiredMintApprovals(-2))
	if got := r.RequiredBurnApprovals(); got != 1 {
		t.Errorf("RequiredBurnApprovals: got %d, want 1", got)
	}
	if got := r.RequiredMintApprovals(); got != 1 {
		t.Errorf("RequiredMintApprovals: got %d, want 1", got)
	}
}
