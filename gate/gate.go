// Package gate implements the allow-list gate for transfers leaving
// the ledger's trust boundary. External transfers debit the sender
// only; the matching credit happens in the remote process and is the
// host's responsibility.
package gate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
	"github.com/xraph/tally/validate"
)

// Debiter is the slice of the ledger the gate needs.
type Debiter interface {
	Debit(target string, q types.Quantity) (token.Movement, error)
}

// Gate holds the set of process identifiers authorized as external
// transfer destinations. The set changes only through Add and Remove;
// transfers consult it, never mutate it.
type Gate struct {
	mu      sync.RWMutex
	ledger  Debiter
	targets map[string]struct{}
}

func New(ledger Debiter) *Gate {
	return &Gate{
		ledger:  ledger,
		targets: make(map[string]struct{}),
	}
}

// Add inserts targets into the authorized set. Adding a present target
// is a no-op; an invalid address fails the whole call before any
// insert.
func (g *Gate) Add(targets ...string) error {
	for _, target := range targets {
		if err := validate.Address.Validate("target", target); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, target := range targets {
		g.targets[target] = struct{}{}
	}
	return nil
}

// Remove deletes targets from the authorized set. Removing an absent
// target is a no-op.
func (g *Gate) Remove(targets ...string) error {
	for _, target := range targets {
		if err := validate.Address.Validate("target", target); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, target := range targets {
		delete(g.targets, target)
	}
	return nil
}

// Authorized reports whether process is an allowed external
// destination.
func (g *Gate) Authorized(process string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.targets[process]
	return ok
}

// Targets returns the sorted authorized set.
func (g *Gate) Targets() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.targets))
	for target := range g.targets {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// TransferExternally debits the sender for a transfer to recipient on
// the remote process. The process must be in the authorized set; the
// debit fails before any write when the sender cannot cover q.
func (g *Gate) TransferExternally(sender, recipient, process string, q types.Quantity) (token.Movement, error) {
	if err := validate.Address.Validate("sender", sender); err != nil {
		return token.Movement{}, err
	}
	if err := validate.Address.Validate("recipient", recipient); err != nil {
		return token.Movement{}, err
	}
	if err := validate.Address.Validate("process", process); err != nil {
		return token.Movement{}, err
	}
	if err := validate.Quantity.Validate("quantity", q); err != nil {
		return token.Movement{}, err
	}

	g.mu.RLock()
	_, ok := g.targets[process]
	g.mu.RUnlock()
	if !ok {
		return token.Movement{}, fmt.Errorf("%s: %w", process, types.ErrUnknownTarget)
	}

	return g.ledger.Debit(sender, q)
}
