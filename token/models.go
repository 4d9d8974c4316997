package token

import (
	"github.com/xraph/tally/types"
)

// Metadata describes a token. It is set once at initialization and
// immutable afterwards.
type Metadata struct {
	Name         string `json:"name"`
	Ticker       string `json:"ticker"`
	Denomination int    `json:"denomination"`
	Logo         string `json:"logo,omitempty"`
}

// Movement is the result of a single-sided balance change (mint, burn,
// external debit).
type Movement struct {
	Target     string         `json:"target"`
	Quantity   types.Quantity `json:"quantity"`
	BalanceOld types.Quantity `json:"balance_old"`
	BalanceNew types.Quantity `json:"balance_new"`
}

// Transfer is the result of an internal two-sided transfer.
type Transfer struct {
	Sender              string         `json:"sender"`
	Recipient           string         `json:"recipient"`
	Quantity            types.Quantity `json:"quantity"`
	SenderBalanceOld    types.Quantity `json:"sender_balance_old"`
	SenderBalanceNew    types.Quantity `json:"sender_balance_new"`
	RecipientBalanceOld types.Quantity `json:"recipient_balance_old"`
	RecipientBalanceNew types.Quantity `json:"recipient_balance_new"`
}
