// Package notice builds the outbound messages a token process emits:
// credit and debit notices, burn-request fan-outs, query echoes, and
// action replies. Every numeric field is rendered as a decimal string
// so arbitrary precision survives the wire.
package notice

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

// Tag names shared by inbound messages and outbound notices.
const (
	TagAction              = "Action"
	TagActionType          = "Action-Type"
	TagTarget              = "Target"
	TagTargets             = "Targets"
	TagQuantity            = "Quantity"
	TagSender              = "Sender"
	TagRecipient           = "Recipient"
	TagProcess             = "Process"
	TagRequestor           = "Requestor"
	TagBurnRequestID       = "Burn-Request-Id"
	TagName                = "Name"
	TagTicker              = "Ticker"
	TagDenomination        = "Denomination"
	TagLogo                = "Logo"
	TagBalance             = "Balance"
	TagBalanceOld          = "Balance-Old"
	TagBalanceNew          = "Balance-New"
	TagSenderBalanceOld    = "Sender-Balance-Old"
	TagSenderBalanceNew    = "Sender-Balance-New"
	TagRecipientBalanceOld = "Recipient-Balance-Old"
	TagRecipientBalanceNew = "Recipient-Balance-New"
	TagTotalSupply         = "Total-Supply"
	TagError               = "Error"
)

// Outbound action names.
const (
	ActionCredit      = "Credit-Notice"
	ActionDebit       = "Debit-Notice"
	ActionBurnRequest = "Burn-Request-Notice"
	ActionInfo        = "Info"
	ActionBalance     = "Balance"
	ActionBalances    = "Balances"
	ActionTotalSupply = "Total-Supply"
)

// Notice is one outbound message addressed to Target.
type Notice struct {
	Target string            `json:"target"`
	Action string            `json:"action"`
	Tags   map[string]string `json:"tags,omitempty"`
	Data   string            `json:"data,omitempty"`
}

// With returns a copy of the notice with the tag set. The receiver is
// left untouched.
func (n Notice) With(key, value string) Notice {
	tags := make(map[string]string, len(n.Tags)+1)
	for k, v := range n.Tags {
		tags[k] = v
	}
	tags[key] = value
	n.Tags = tags
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Builders
// ─────────────────────────────────────────────────────────────────────────────

// Credit informs the recipient of an internal transfer about the
// incoming quantity.
func Credit(recipient, sender string, q types.Quantity) Notice {
	return Notice{
		Target: recipient,
		Action: ActionCredit,
		Tags: map[string]string{
			TagSender:   sender,
			TagQuantity: q.String(),
		},
	}
}

// Debit informs the sender of an internal transfer, carrying all four
// balances.
func Debit(tr token.Transfer) Notice {
	return Notice{
		Target: tr.Sender,
		Action: ActionDebit,
		Tags: map[string]string{
			TagRecipient:           tr.Recipient,
			TagQuantity:            tr.Quantity.String(),
			TagSenderBalanceOld:    tr.SenderBalanceOld.String(),
			TagSenderBalanceNew:    tr.SenderBalanceNew.String(),
			TagRecipientBalanceOld: tr.RecipientBalanceOld.String(),
			TagRecipientBalanceNew: tr.RecipientBalanceNew.String(),
		},
	}
}

// BurnDebit informs the requestor that an approved burn executed. It
// is a Debit-Notice without a recipient tag: the tokens left the
// supply.
func BurnDebit(mv token.Movement) Notice {
	return Notice{
		Target: mv.Target,
		Action: ActionDebit,
		Tags: map[string]string{
			TagQuantity:   mv.Quantity.String(),
			TagBalanceOld: mv.BalanceOld.String(),
			TagBalanceNew: mv.BalanceNew.String(),
		},
	}
}

// ExternalDebit informs the sender of an external transfer. Only the
// debit side exists locally; the credit happens on the remote process.
func ExternalDebit(recipient, process string, mv token.Movement) Notice {
	return Notice{
		Target: mv.Target,
		Action: ActionDebit,
		Tags: map[string]string{
			TagRecipient:  recipient,
			TagProcess:    process,
			TagQuantity:   mv.Quantity.String(),
			TagBalanceOld: mv.BalanceOld.String(),
			TagBalanceNew: mv.BalanceNew.String(),
		},
	}
}

// BurnRequest asks one burner to approve a pending proposal. The
// caller fans it out to every burner.
func BurnRequest(burner string, p proposal.Proposal) Notice {
	return Notice{
		Target: burner,
		Action: ActionBurnRequest,
		Tags: map[string]string{
			TagRequestor:     p.Requestor,
			TagQuantity:      p.Quantity.String(),
			TagBurnRequestID: p.ID.String(),
		},
	}
}

// Info echoes the token metadata, denomination rendered as a string.
func Info(target string, meta token.Metadata) Notice {
	n := Notice{
		Target: target,
		Action: ActionInfo,
		Tags: map[string]string{
			TagName:         meta.Name,
			TagTicker:       meta.Ticker,
			TagDenomination: strconv.Itoa(meta.Denomination),
		},
	}
	if meta.Logo != "" {
		n.Tags[TagLogo] = meta.Logo
	}
	return n
}

// Balance echoes one holder's balance.
func Balance(target, holder string, balance types.Quantity, ticker string) Notice {
	return Notice{
		Target: target,
		Action: ActionBalance,
		Tags: map[string]string{
			TagTarget:  holder,
			TagBalance: balance.String(),
			TagTicker:  ticker,
		},
	}
}

// Balances echoes the full balance map as a JSON object in Data, keys
// sorted, every value a decimal string.
func Balances(target string, balances map[string]types.Quantity) (Notice, error) {
	data, err := json.Marshal(balances)
	if err != nil {
		return Notice{}, err
	}
	return Notice{
		Target: target,
		Action: ActionBalances,
		Data:   string(data),
	}, nil
}

// TotalSupply echoes the sum of all balances.
func TotalSupply(target string, supply types.Quantity) Notice {
	return Notice{
		Target: target,
		Action: ActionTotalSupply,
		Tags: map[string]string{
			TagTotalSupply: supply.String(),
		},
	}
}

// Response is the generic success reply for a mutating action, named
// "<action>-Response". Callers attach result tags with With.
func Response(target, action string) Notice {
	return Notice{
		Target: target,
		Action: action + "-Response",
		Tags:   map[string]string{},
	}
}

// Error is the failure reply for an action, named "<action>-Error".
func Error(target, action string, err error) Notice {
	return Notice{
		Target: target,
		Action: action + "-Error",
		Tags: map[string]string{
			TagError: err.Error(),
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delivery
// ─────────────────────────────────────────────────────────────────────────────

// Sender delivers notices to the host's outbound transport.
type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, n Notice) error

func (f SenderFunc) Send(ctx context.Context, n Notice) error {
	return f(ctx, n)
}

// Discard drops every notice. It is the default sender for processes
// built without one.
var Discard Sender = SenderFunc(func(context.Context, Notice) error {
	return nil
})
