package notice

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

func addr(c byte) string {
	return strings.Repeat(string(c), 43)
}

func TestWithCopies(t *testing.T) {
	base := Notice{Target: addr('a'), Action: "X", Tags: map[string]string{"A": "1"}}

	derived := base.With("B", "2")
	if derived.Tags["A"] != "1" || derived.Tags["B"] != "2" {
		t.Errorf("derived tags: %v", derived.Tags)
	}
	if _, ok := base.Tags["B"]; ok {
		t.Error("With must not mutate the receiver")
	}

	// Overwriting an existing key only affects the copy.
	changed := base.With("A", "9")
	if base.Tags["A"] != "1" {
		t.Error("With must not overwrite the receiver's tags")
	}
	if changed.Tags["A"] != "9" {
		t.Errorf("overwritten tag: got %q, want 9", changed.Tags["A"])
	}
}

func TestCredit(t *testing.T) {
	n := Credit(addr('r'), addr('s'), types.FromUint64(42))

	if n.Target != addr('r') {
		t.Errorf("target: got %s", n.Target)
	}
	if n.Action != ActionCredit {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagSender] != addr('s') || n.Tags[TagQuantity] != "42" {
		t.Errorf("tags: %v", n.Tags)
	}
}

func TestDebit(t *testing.T) {
	tr := token.Transfer{
		Sender:              addr('s'),
		Recipient:           addr('r'),
		Quantity:            types.FromUint64(1),
		SenderBalanceOld:    types.FromUint64(190),
		SenderBalanceNew:    types.FromUint64(189),
		RecipientBalanceOld: types.FromUint64(1),
		RecipientBalanceNew: types.FromUint64(2),
	}
	n := Debit(tr)

	if n.Target != addr('s') {
		t.Errorf("target: got %s", n.Target)
	}
	if n.Action != ActionDebit {
		t.Errorf("action: got %s", n.Action)
	}
	want := map[string]string{
		TagRecipient:           addr('r'),
		TagQuantity:            "1",
		TagSenderBalanceOld:    "190",
		TagSenderBalanceNew:    "189",
		TagRecipientBalanceOld: "1",
		TagRecipientBalanceNew: "2",
	}
	for k, v := range want {
		if n.Tags[k] != v {
			t.Errorf("tag %s: got %q, want %q", k, n.Tags[k], v)
		}
	}
}

func TestBurnDebitHasNoRecipient(t *testing.T) {
	mv := token.Movement{
		Target:     addr('q'),
		Quantity:   types.FromUint64(1),
		BalanceOld: types.FromUint64(190),
		BalanceNew: types.FromUint64(189),
	}
	n := BurnDebit(mv)

	if n.Action != ActionDebit {
		t.Errorf("action: got %s", n.Action)
	}
	if _, ok := n.Tags[TagRecipient]; ok {
		t.Error("burn debit must not carry a recipient tag")
	}
	if n.Tags[TagBalanceOld] != "190" || n.Tags[TagBalanceNew] != "189" {
		t.Errorf("balance tags: %v", n.Tags)
	}
}

func TestExternalDebit(t *testing.T) {
	mv := token.Movement{
		Target:     addr('s'),
		Quantity:   types.FromUint64(30),
		BalanceOld: types.FromUint64(100),
		BalanceNew: types.FromUint64(70),
	}
	n := ExternalDebit(addr('r'), addr('p'), mv)

	if n.Target != addr('s') {
		t.Errorf("target: got %s", n.Target)
	}
	if n.Tags[TagProcess] != addr('p') || n.Tags[TagRecipient] != addr('r') {
		t.Errorf("tags: %v", n.Tags)
	}
	if n.Tags[TagQuantity] != "30" {
		t.Errorf("quantity: got %q", n.Tags[TagQuantity])
	}
}

func TestBurnRequest(t *testing.T) {
	reg := proposal.NewRegistry()
	p, err := reg.CreateBurnRequest(addr('q'), types.FromUint64(5))
	if err != nil {
		t.Fatalf("CreateBurnRequest: %v", err)
	}

	n := BurnRequest(addr('b'), p)
	if n.Target != addr('b') {
		t.Errorf("target: got %s", n.Target)
	}
	if n.Action != ActionBurnRequest {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagRequestor] != addr('q') || n.Tags[TagQuantity] != "5" {
		t.Errorf("tags: %v", n.Tags)
	}
	if !strings.HasPrefix(n.Tags[TagBurnRequestID], "burn_") {
		t.Errorf("request id tag: got %q", n.Tags[TagBurnRequestID])
	}
}

func TestInfo(t *testing.T) {
	meta := token.Metadata{Name: "Points", Ticker: "PNTS", Denomination: 12, Logo: addr('l')}
	n := Info(addr('a'), meta)

	if n.Action != ActionInfo {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagDenomination] != "12" {
		t.Errorf("denomination must be a string: got %q", n.Tags[TagDenomination])
	}
	if n.Tags[TagName] != "Points" || n.Tags[TagTicker] != "PNTS" || n.Tags[TagLogo] != addr('l') {
		t.Errorf("tags: %v", n.Tags)
	}

	// Logo is optional and omitted when empty.
	n = Info(addr('a'), token.Metadata{Name: "Points", Ticker: "PNTS", Denomination: 12})
	if _, ok := n.Tags[TagLogo]; ok {
		t.Error("empty logo must be omitted")
	}
}

func TestBalance(t *testing.T) {
	n := Balance(addr('a'), addr('h'), types.FromUint64(20), "PNTS")

	if n.Tags[TagTarget] != addr('h') || n.Tags[TagBalance] != "20" || n.Tags[TagTicker] != "PNTS" {
		t.Errorf("tags: %v", n.Tags)
	}
}

func TestBalancesJSON(t *testing.T) {
	balances := map[string]types.Quantity{
		addr('b'): types.FromUint64(2),
		addr('a'): types.MustParse("79228162514264337593543950335"),
	}
	n, err := Balances(addr('t'), balances)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}

	// Keys sorted, values as decimal strings.
	want := fmt.Sprintf(`{%q:"79228162514264337593543950335",%q:"2"}`, addr('a'), addr('b'))
	if n.Data != want {
		t.Errorf("data:\n got %s\nwant %s", n.Data, want)
	}
	if n.Action != ActionBalances {
		t.Errorf("action: got %s", n.Action)
	}
}

func TestTotalSupply(t *testing.T) {
	n := TotalSupply(addr('a'), types.FromUint64(1500))
	if n.Action != ActionTotalSupply {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagTotalSupply] != "1500" {
		t.Errorf("tags: %v", n.Tags)
	}
}

func TestResponse(t *testing.T) {
	n := Response(addr('a'), "Mint").
		With(TagTarget, addr('t')).
		With(TagBalanceNew, "20")

	if n.Action != "Mint-Response" {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagTarget] != addr('t') || n.Tags[TagBalanceNew] != "20" {
		t.Errorf("tags: %v", n.Tags)
	}
}

func TestError(t *testing.T) {
	n := Error(addr('a'), "Transfer", types.ErrInsufficientBalance)

	if n.Action != "Transfer-Error" {
		t.Errorf("action: got %s", n.Action)
	}
	if n.Tags[TagError] != types.ErrInsufficientBalance.Error() {
		t.Errorf("error tag: got %q", n.Tags[TagError])
	}
}

func TestSenderFunc(t *testing.T) {
	var got []Notice
	s := SenderFunc(func(_ context.Context, n Notice) error {
		got = append(got, n)
		return nil
	})

	if err := s.Send(context.Background(), Credit(addr('r'), addr('s'), types.FromUint64(1))); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(got) != 1 || got[0].Action != ActionCredit {
		t.Errorf("recorded notices: %v", got)
	}

	if err := Discard.Send(context.Background(), Notice{}); err != nil {
		t.Errorf("Discard.Send: %v", err)
	}
}
