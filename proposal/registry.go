// Package proposal implements the multi-party approval workflow that
// gates burns and mints behind a quorum of authorized approvers.
// Approving never executes the requested mutation: the caller observes
// Approval.ReachedQuorum and invokes the ledger itself.
package proposal

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
	"github.com/xraph/tally/validate"
)

// Registry holds the authorized burner and minter sets, the approval
// requirements, and every proposal keyed by (requestor, id). Proposals
// are never deleted; approved ones persist alongside pending ones.
type Registry struct {
	mu           sync.RWMutex
	burners      map[string]struct{}
	minters      map[string]struct{}
	requiredBurn int
	requiredMint int
	distinct     bool
	proposals    map[string]map[string]*Proposal
}

type Option func(*Registry)

func WithBurners(addrs ...string) Option {
	return func(r *Registry) {
		for _, a := range addrs {
			r.burners[a] = struct{}{}
		}
	}
}

func WithMinters(addrs ...string) Option {
	return func(r *Registry) {
		for _, a := range addrs {
			r.minters[a] = struct{}{}
		}
	}
}

func WithRequiredBurnApprovals(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.requiredBurn = n
		}
	}
}

func WithRequiredMintApprovals(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.requiredMint = n
		}
	}
}

// WithDistinctApprovers makes a repeat approval from the same address
// fail with ErrDuplicateApproval. Without it the approval list counts
// duplicates literally, so one approver can reach quorum alone.
func WithDistinctApprovers() Option {
	return func(r *Registry) {
		r.distinct = true
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		burners:      make(map[string]struct{}),
		minters:      make(map[string]struct{}),
		requiredBurn: 1,
		requiredMint: 1,
		proposals:    make(map[string]map[string]*Proposal),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Authorization
// ─────────────────────────────────────────────────────────────────────────────

// CanBurn fails unless addr is an authorized burner.
func (r *Registry) CanBurn(addr string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.burners[addr]; !ok {
		return unauthorized(addr, "burner")
	}
	return nil
}

// CanMint fails unless addr is an authorized minter.
func (r *Registry) CanMint(addr string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.minters[addr]; !ok {
		return unauthorized(addr, "minter")
	}
	return nil
}

func unauthorized(addr, role string) error {
	return fmt.Errorf("address %s is not a %s: %w", addr, role, types.ErrUnauthorized)
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

// CreateBurnRequest stores a pending burn proposal for the requestor.
// Any valid address may request; authorization applies to approvers.
func (r *Registry) CreateBurnRequest(requestor string, q types.Quantity) (Proposal, error) {
	return r.create(KindBurn, requestor, q)
}

// CreateMintRequest stores a pending mint proposal for the requestor.
func (r *Registry) CreateMintRequest(requestor string, q types.Quantity) (Proposal, error) {
	return r.create(KindMint, requestor, q)
}

func (r *Registry) create(kind Kind, requestor string, q types.Quantity) (Proposal, error) {
	if err := validate.Address.Validate("requestor", requestor); err != nil {
		return Proposal{}, err
	}
	if err := validate.Quantity.Validate("quantity", q); err != nil {
		return Proposal{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	proposalID := id.NewBurnRequestID()
	if kind == KindMint {
		proposalID = id.NewMintRequestID()
	}

	p := &Proposal{
		Entity:    types.NewEntity(),
		ID:        proposalID,
		Kind:      kind,
		Requestor: requestor,
		Quantity:  q,
		Approvals: make([]string, 0),
	}
	if r.proposals[requestor] == nil {
		r.proposals[requestor] = make(map[string]*Proposal)
	}
	r.proposals[requestor][proposalID.String()] = p

	return snapshot(p), nil
}

// Get returns a snapshot of the proposal stored under (requestor, id),
// or ErrProposalNotFound when the requestor, the id, or the kind does
// not match.
func (r *Registry) Get(kind Kind, requestor string, proposalID id.ID) (Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.proposals[requestor][proposalID.String()]
	if !ok || p.Kind != kind {
		return Proposal{}, types.ErrProposalNotFound
	}
	return snapshot(p), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Approvals
// ─────────────────────────────────────────────────────────────────────────────

// ApproveBurnRequest appends the approver to the proposal and flips it
// to approved when the count reaches the burn requirement. The approver
// must be an authorized burner.
func (r *Registry) ApproveBurnRequest(approver, requestor string, proposalID id.ID) (Approval, error) {
	return r.approve(KindBurn, approver, requestor, proposalID)
}

// ApproveMintRequest is the mint-side counterpart of
// ApproveBurnRequest; the approver must be an authorized minter.
func (r *Registry) ApproveMintRequest(approver, requestor string, proposalID id.ID) (Approval, error) {
	return r.approve(KindMint, approver, requestor, proposalID)
}

func (r *Registry) approve(kind Kind, approver, requestor string, proposalID id.ID) (Approval, error) {
	if err := validate.Address.Validate("approver", approver); err != nil {
		return Approval{}, err
	}
	if err := validate.Address.Validate("requestor", requestor); err != nil {
		return Approval{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authorized := r.burners
	required := r.requiredBurn
	role := "burner"
	if kind == KindMint {
		authorized = r.minters
		required = r.requiredMint
		role = "minter"
	}
	if _, ok := authorized[approver]; !ok {
		return Approval{}, unauthorized(approver, role)
	}

	p, ok := r.proposals[requestor][proposalID.String()]
	if !ok || p.Kind != kind {
		return Approval{}, types.ErrProposalNotFound
	}

	if r.distinct && p.HasApproval(approver) {
		return Approval{}, types.ErrDuplicateApproval
	}

	p.Approvals = append(p.Approvals, approver)
	p.Touch()

	reached := false
	if !p.Approved && len(p.Approvals) >= required {
		p.Approved = true
		reached = true
	}

	return Approval{Proposal: snapshot(p), ReachedQuorum: reached}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Membership
// ─────────────────────────────────────────────────────────────────────────────

// Burners returns the sorted burner set; burn-request notices fan out
// to it.
func (r *Registry) Burners() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.burners)
}

// Minters returns the sorted minter set.
func (r *Registry) Minters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.minters)
}

func (r *Registry) RequiredBurnApprovals() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.requiredBurn
}

func (r *Registry) RequiredMintApprovals() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.requiredMint
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func snapshot(p *Proposal) Proposal {
	out := *p
	out.Approvals = make([]string, len(p.Approvals))
	copy(out.Approvals, p.Approvals)
	return out
}
