package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

func addr(c byte) string {
	return strings.Repeat(string(c), 43)
}

func newLedger(t *testing.T, balances map[string]types.Quantity) *token.Ledger {
	t.Helper()
	l := token.NewLedger()
	meta := token.Metadata{Name: "Points", Ticker: "PNTS", Denomination: 12}
	if err := l.Init(meta, balances); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return l
}

func TestAddRemove(t *testing.T) {
	g := New(newLedger(t, nil))
	a, b := addr('a'), addr('b')

	if err := g.Add(a, b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !g.Authorized(a) || !g.Authorized(b) {
		t.Error("added targets must be authorized")
	}

	// Idempotent add.
	if err := g.Add(a); err != nil {
		t.Fatalf("repeat Add: %v", err)
	}
	if got := g.Targets(); len(got) != 2 {
		t.Errorf("Targets after repeat add: got %v", got)
	}

	if err := g.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if g.Authorized(a) {
		t.Error("removed target must not be authorized")
	}

	// Idempotent remove.
	if err := g.Remove(a); err != nil {
		t.Fatalf("repeat Remove: %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	g := New(newLedger(t, nil))

	err := g.Add(addr('a'), "bad")
	if !types.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// All-or-nothing: the valid entry must not slip in.
	if g.Authorized(addr('a')) {
		t.Error("failed Add must not insert any target")
	}

	if err := g.Remove("bad"); !types.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTargetsSorted(t *testing.T) {
	g := New(newLedger(t, nil))
	if err := g.Add(addr('c'), addr('a'), addr('b')); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := g.Targets()
	want := []string{addr('a'), addr('b'), addr('c')}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Targets[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTransferExternally(t *testing.T) {
	sender, recipient, process := addr('s'), addr('r'), addr('p')
	l := newLedger(t, map[string]types.Quantity{sender: types.FromUint64(100)})
	g := New(l)
	if err := g.Add(process); err != nil {
		t.Fatalf("Add: %v", err)
	}

	mv, err := g.TransferExternally(sender, recipient, process, types.FromUint64(30))
	if err != nil {
		t.Fatalf("TransferExternally: %v", err)
	}
	if !mv.BalanceOld.Equal(types.FromUint64(100)) || !mv.BalanceNew.Equal(types.FromUint64(70)) {
		t.Errorf("movement: got %s/%s, want 100/70", mv.BalanceOld, mv.BalanceNew)
	}

	// Debit only: no local credit, supply shrinks by the quantity.
	if b, _ := l.Balance(recipient); !b.IsZero() {
		t.Errorf("recipient credited locally: %s", b)
	}
	if got := l.Supply(); !got.Equal(types.FromUint64(70)) {
		t.Errorf("supply: got %s, want 70", got)
	}
}

func TestTransferExternallyUnknownTarget(t *testing.T) {
	sender := addr('s')
	l := newLedger(t, map[string]types.Quantity{sender: types.FromUint64(100)})
	g := New(l)

	_, err := g.TransferExternally(sender, addr('r'), addr('p'), types.FromUint64(10))
	if !errors.Is(err, types.ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
	if !types.IsAuthorization(err) {
		t.Errorf("expected authorization class, got %v", err)
	}
	if b, _ := l.Balance(sender); !b.Equal(types.FromUint64(100)) {
		t.Errorf("rejected transfer must not debit: got %s", b)
	}
}

func TestTransferExternallyInsufficient(t *testing.T) {
	sender, process := addr('s'), addr('p')
	l := newLedger(t, map[string]types.Quantity{sender: types.FromUint64(5)})
	g := New(l)
	if err := g.Add(process); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := g.TransferExternally(sender, addr('r'), process, types.FromUint64(10))
	if !errors.Is(err, types.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if b, _ := l.Balance(sender); !b.Equal(types.FromUint64(5)) {
		t.Errorf("failed transfer must not debit: got %s", b)
	}
}

func TestTransferExternallyValidation(t *testing.T) {
	l := newLedger(t, nil)
	g := New(l)
	good := addr('a')

	tests := []struct {
		name      string
		sender    string
		recipient string
		process   string
		quantity  types.Quantity
	}{
		{"bad sender", "x", good, good, types.FromUint64(1)},
		{"bad recipient", good, "x", good, types.FromUint64(1)},
		{"bad process", good, good, "x", types.FromUint64(1)},
		{"zero quantity", good, good, good, types.Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.TransferExternally(tt.sender, tt.recipient, tt.process, tt.quantity)
			if !types.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
