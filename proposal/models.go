package proposal

import (
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

type Kind string

const (
	KindBurn Kind = "burn"
	KindMint Kind = "mint"
)

// Proposal is a pending or approved request to mint or burn tokens.
// Approvals keeps arrival order. Approved is terminal: once set it is
// never cleared, and later approvals still append without re-reaching
// quorum.
type Proposal struct {
	types.Entity
	ID        id.ID          `json:"id"`
	Kind      Kind           `json:"kind"`
	Requestor string         `json:"requestor"`
	Quantity  types.Quantity `json:"quantity"`
	Approvals []string       `json:"approvals"`
	Approved  bool           `json:"approved"`
}

// HasApproval reports whether addr already appears in the approval
// list.
func (p Proposal) HasApproval(addr string) bool {
	for _, a := range p.Approvals {
		if a == addr {
			return true
		}
	}
	return false
}

// Approval is the result of one approve call. ReachedQuorum is true
// only on the call that flipped the proposal from pending to approved,
// so the caller executes the requested mutation at most once per
// proposal.
type Approval struct {
	Proposal      Proposal `json:"proposal"`
	ReachedQuorum bool     `json:"reached_quorum"`
}
