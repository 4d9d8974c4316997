// Package token implements the balance ledger: token metadata plus a
// map of address to quantity, with mint, burn, debit, and transfer
// mutations that validate and check every failure condition before the
// first write.
package token

import (
	"sort"
	"sync"

	"github.com/xraph/tally/types"
	"github.com/xraph/tally/validate"
)

var (
	nameCheck         = validate.String().LengthGreaterThan(0, "must not be empty")
	tickerCheck       = validate.String().LengthGreaterThan(0, "must not be empty")
	denominationCheck = validate.Number().Integer().GreaterThan(0, "must be a positive integer")
)

// Ledger owns the token metadata and the balance map. All operations
// hold its lock across the whole read-check-write section, so a
// concurrent host observes each operation as atomic.
type Ledger struct {
	mu       sync.RWMutex
	meta     *Metadata
	balances map[string]types.Quantity
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]types.Quantity),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Initialization
// ─────────────────────────────────────────────────────────────────────────────

// Init sets the token metadata and seeds initial balances. It is a
// one-time operation: a second call fails with ErrAlreadyInitialized
// and leaves state untouched.
func (l *Ledger) Init(meta Metadata, balances map[string]types.Quantity) error {
	if err := nameCheck.Validate("name", meta.Name); err != nil {
		return err
	}
	if err := tickerCheck.Validate("ticker", meta.Ticker); err != nil {
		return err
	}
	if err := denominationCheck.Validate("denomination", meta.Denomination); err != nil {
		return err
	}

	// Sorted keys keep the first reported entry error deterministic.
	addrs := make([]string, 0, len(balances))
	for addr := range balances {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	for _, addr := range addrs {
		if err := validate.Address.Validate(addr, addr); err != nil {
			return err
		}
		if balances[addr].IsNegative() {
			return types.ValidationError{Field: addr, Message: "must not be negative"}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.meta != nil {
		return types.ErrAlreadyInitialized
	}

	l.meta = &meta
	l.balances = make(map[string]types.Quantity, len(balances))
	for addr, q := range balances {
		l.balances[addr] = q
	}
	return nil
}

func (l *Ledger) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.meta != nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// Info returns a copy of the token metadata.
func (l *Ledger) Info() (Metadata, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.meta == nil {
		return Metadata{}, types.ErrNotInitialized
	}
	return *l.meta, nil
}

// Balance returns the balance of addr, zero for addresses without an
// entry.
func (l *Ledger) Balance(addr string) (types.Quantity, error) {
	if err := validate.Address.Validate("target", addr); err != nil {
		return types.Zero(), err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[addr], nil
}

// Balances returns a copy of the full balance map, empty but never nil.
func (l *Ledger) Balances() map[string]types.Quantity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]types.Quantity, len(l.balances))
	for addr, q := range l.balances {
		out[addr] = q
	}
	return out
}

// Supply returns the sum of all balances.
func (l *Ledger) Supply() types.Quantity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := types.Zero()
	for _, q := range l.balances {
		total = total.Add(q)
	}
	return total
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// Mint adds q to target's balance, creating the entry at zero first if
// absent. Authorization is the caller's concern.
func (l *Ledger) Mint(target string, q types.Quantity) (Movement, error) {
	if err := validate.Address.Validate("target", target); err != nil {
		return Movement{}, err
	}
	if err := validate.Quantity.Validate("quantity", q); err != nil {
		return Movement{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.meta == nil {
		return Movement{}, types.ErrNotInitialized
	}

	old := l.balances[target]
	updated := old.Add(q)
	l.balances[target] = updated

	return Movement{
		Target:     target,
		Quantity:   q,
		BalanceOld: old,
		BalanceNew: updated,
	}, nil
}

// Burn removes q from target's balance. The target must hold an entry
// covering q.
func (l *Ledger) Burn(target string, q types.Quantity) (Movement, error) {
	return l.debit(target, q)
}

// Debit removes q from target's balance on behalf of an external
// transfer. Checks are identical to Burn.
func (l *Ledger) Debit(target string, q types.Quantity) (Movement, error) {
	return l.debit(target, q)
}

func (l *Ledger) debit(target string, q types.Quantity) (Movement, error) {
	if err := validate.Address.Validate("target", target); err != nil {
		return Movement{}, err
	}
	if err := validate.Quantity.Validate("quantity", q); err != nil {
		return Movement{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.meta == nil {
		return Movement{}, types.ErrNotInitialized
	}

	old, ok := l.balances[target]
	if !ok {
		return Movement{}, types.ErrNoBalance
	}
	if old.LessThan(q) {
		return Movement{}, types.ErrInsufficientBalance
	}

	updated := old.Sub(q)
	l.balances[target] = updated

	return Movement{
		Target:     target,
		Quantity:   q,
		BalanceOld: old,
		BalanceNew: updated,
	}, nil
}

// Transfer moves q from sender to recipient. The debit and credit are
// applied under one lock hold, so no caller observes the intermediate
// state. A sender drained to zero keeps its entry in the map.
func (l *Ledger) Transfer(sender, recipient string, q types.Quantity) (Transfer, error) {
	if err := validate.Address.Validate("sender", sender); err != nil {
		return Transfer{}, err
	}
	if err := validate.Address.Validate("recipient", recipient); err != nil {
		return Transfer{}, err
	}
	if err := validate.Quantity.Validate("quantity", q); err != nil {
		return Transfer{}, err
	}
	if sender == recipient {
		return Transfer{}, types.ErrSelfTransfer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.meta == nil {
		return Transfer{}, types.ErrNotInitialized
	}

	senderOld, ok := l.balances[sender]
	if !ok {
		return Transfer{}, types.ErrNoBalance
	}
	if senderOld.LessThan(q) {
		return Transfer{}, types.ErrInsufficientBalance
	}
	recipientOld := l.balances[recipient]

	senderNew := senderOld.Sub(q)
	recipientNew := recipientOld.Add(q)
	l.balances[sender] = senderNew
	l.balances[recipient] = recipientNew

	return Transfer{
		Sender:              sender,
		Recipient:           recipient,
		Quantity:            q,
		SenderBalanceOld:    senderOld,
		SenderBalanceNew:    senderNew,
		RecipientBalanceOld: recipientOld,
		RecipientBalanceNew: recipientNew,
	}, nil
}
