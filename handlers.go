package tally

import (
	"context"
	"fmt"
	"strings"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/notice"
	"github.com/xraph/tally/types"
)

// Inbound action names.
const (
	ActionInfo                  = "Info"
	ActionBalance               = "Balance"
	ActionBalances              = "Balances"
	ActionTotalSupply           = "Total-Supply"
	ActionMint                  = "Mint"
	ActionBurn                  = "Burn"
	ActionTransfer              = "Transfer"
	ActionAddExternalTargets    = "Add-External-Targets"
	ActionRemoveExternalTargets = "Remove-External-Targets"
)

// Action-Type tag values.
const (
	BurnNewRequest   = "NEW_REQUEST"
	BurnApproval     = "APPROVAL"
	TransferInternal = "INTERNAL"
	TransferExternal = "EXTERNAL"
)

// Message is one inbound action delivered by the host: a sender
// identity plus a flat tag payload. The action name is the "Action"
// tag; numeric tags carry decimal strings.
type Message struct {
	From string            `json:"from"`
	Tags map[string]string `json:"tags"`
}

// Tag returns the named tag or the empty string.
func (m Message) Tag(key string) string { return m.Tags[key] }

// Handle routes one inbound message to its action handler. A failed
// action performs no mutation and sends no success notice; with
// WithErrorNotices the caller also receives an "<Action>-Error"
// notice.
func (p *Process) Handle(ctx context.Context, msg Message) error {
	action := msg.Tag(notice.TagAction)
	if action == "" {
		return types.ValidationError{Field: notice.TagAction, Message: "is required"}
	}

	var err error
	switch action {
	case ActionInfo:
		err = p.handleInfo(ctx, msg)
	case ActionBalance:
		err = p.handleBalance(ctx, msg)
	case ActionBalances:
		err = p.handleBalances(ctx, msg)
	case ActionTotalSupply:
		err = p.handleTotalSupply(ctx, msg)
	case ActionMint:
		err = p.handleMint(ctx, msg)
	case ActionBurn:
		err = p.handleBurn(ctx, msg)
	case ActionTransfer:
		err = p.handleTransfer(ctx, msg)
	case ActionAddExternalTargets:
		err = p.handleAddExternalTargets(ctx, msg)
	case ActionRemoveExternalTargets:
		err = p.handleRemoveExternalTargets(ctx, msg)
	default:
		err = fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}

	if err != nil {
		p.logger.Warn("action failed",
			"action", action,
			"from", msg.From,
			"error", err,
		)
		if p.errorNotices {
			p.send(ctx, notice.Error(msg.From, action, err))
		}
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

func (p *Process) handleInfo(ctx context.Context, msg Message) error {
	meta, err := p.ledger.Info()
	if err != nil {
		return err
	}

	p.send(ctx, notice.Info(msg.From, meta))
	return nil
}

func (p *Process) handleBalance(ctx context.Context, msg Message) error {
	meta, err := p.ledger.Info()
	if err != nil {
		return err
	}

	holder := msg.Tag(notice.TagTarget)
	if holder == "" {
		holder = msg.From
	}
	balance, err := p.ledger.Balance(holder)
	if err != nil {
		return err
	}

	p.send(ctx, notice.Balance(msg.From, holder, balance, meta.Ticker))
	return nil
}

func (p *Process) handleBalances(ctx context.Context, msg Message) error {
	n, err := notice.Balances(msg.From, p.ledger.Balances())
	if err != nil {
		return err
	}

	p.send(ctx, n)
	return nil
}

func (p *Process) handleTotalSupply(ctx context.Context, msg Message) error {
	p.send(ctx, notice.TotalSupply(msg.From, p.ledger.Supply()))
	return nil
}

// ──────────────────────────────────────────────────
// Mint
// ──────────────────────────────────────────────────

func (p *Process) handleMint(ctx context.Context, msg Message) error {
	target, err := requireTag(msg, notice.TagTarget)
	if err != nil {
		return err
	}
	quantity, err := quantityTag(msg)
	if err != nil {
		return err
	}

	// Policy first, mechanism second: the ledger itself does not
	// authorize.
	if err := p.registry.CanMint(msg.From); err != nil {
		return err
	}

	mv, err := p.ledger.Mint(target, quantity)
	if err != nil {
		return err
	}
	p.hooks.EmitMint(ctx, msg.From, mv)

	p.send(ctx, notice.Response(msg.From, ActionMint).
		With(notice.TagTarget, mv.Target).
		With(notice.TagBalanceOld, mv.BalanceOld.String()).
		With(notice.TagBalanceNew, mv.BalanceNew.String()))
	return nil
}

// ──────────────────────────────────────────────────
// Burn
// ──────────────────────────────────────────────────

func (p *Process) handleBurn(ctx context.Context, msg Message) error {
	switch t := msg.Tag(notice.TagActionType); t {
	case "", BurnNewRequest:
		return p.handleBurnRequest(ctx, msg)
	case BurnApproval:
		return p.handleBurnApproval(ctx, msg)
	default:
		return types.ValidationError{
			Field:   notice.TagActionType,
			Message: fmt.Sprintf("must be %s or %s, got %q", BurnNewRequest, BurnApproval, t),
		}
	}
}

func (p *Process) handleBurnRequest(ctx context.Context, msg Message) error {
	quantity, err := quantityTag(msg)
	if err != nil {
		return err
	}

	prop, err := p.registry.CreateBurnRequest(msg.From, quantity)
	if err != nil {
		return err
	}
	p.hooks.EmitBurnRequest(ctx, prop)

	// Each authorized burner receives one approval request.
	for _, burner := range p.registry.Burners() {
		p.send(ctx, notice.BurnRequest(burner, prop))
	}
	return nil
}

func (p *Process) handleBurnApproval(ctx context.Context, msg Message) error {
	requestor, err := requireTag(msg, notice.TagRequestor)
	if err != nil {
		return err
	}
	raw, err := requireTag(msg, notice.TagBurnRequestID)
	if err != nil {
		return err
	}
	proposalID, err := id.ParseBurnRequestID(raw)
	if err != nil {
		return types.ValidationError{Field: notice.TagBurnRequestID, Message: err.Error()}
	}

	ap, err := p.registry.ApproveBurnRequest(msg.From, requestor, proposalID)
	if err != nil {
		return err
	}
	p.hooks.EmitApproval(ctx, msg.From, ap)

	// ReachedQuorum is true only on the approval that flipped the
	// proposal, so the burn executes at most once per proposal.
	if !ap.ReachedQuorum {
		return nil
	}

	mv, err := p.ledger.Burn(ap.Proposal.Requestor, ap.Proposal.Quantity)
	if err != nil {
		// The proposal stays approved; the error returns to the
		// approver whose call crossed quorum.
		return err
	}
	p.hooks.EmitBurn(ctx, ap.Proposal, mv)

	p.send(ctx, notice.BurnDebit(mv))
	p.send(ctx, notice.Response(msg.From, ActionBurn).
		With(notice.TagTarget, mv.Target).
		With(notice.TagBalanceOld, mv.BalanceOld.String()).
		With(notice.TagBalanceNew, mv.BalanceNew.String()))
	return nil
}

// ──────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────

func (p *Process) handleTransfer(ctx context.Context, msg Message) error {
	switch t := msg.Tag(notice.TagActionType); t {
	case "", TransferInternal:
		return p.handleInternalTransfer(ctx, msg)
	case TransferExternal:
		return p.handleExternalTransfer(ctx, msg)
	default:
		return types.ValidationError{
			Field:   notice.TagActionType,
			Message: fmt.Sprintf("must be %s or %s, got %q", TransferInternal, TransferExternal, t),
		}
	}
}

func (p *Process) handleInternalTransfer(ctx context.Context, msg Message) error {
	recipient, err := requireTag(msg, notice.TagRecipient)
	if err != nil {
		return err
	}
	quantity, err := quantityTag(msg)
	if err != nil {
		return err
	}

	tr, err := p.ledger.Transfer(msg.From, recipient, quantity)
	if err != nil {
		return err
	}
	p.hooks.EmitTransfer(ctx, tr)

	p.send(ctx, notice.Debit(tr))
	p.send(ctx, notice.Credit(tr.Recipient, tr.Sender, tr.Quantity))
	return nil
}

func (p *Process) handleExternalTransfer(ctx context.Context, msg Message) error {
	recipient, err := requireTag(msg, notice.TagRecipient)
	if err != nil {
		return err
	}
	process, err := requireTag(msg, notice.TagProcess)
	if err != nil {
		return err
	}
	quantity, err := quantityTag(msg)
	if err != nil {
		return err
	}

	mv, err := p.gate.TransferExternally(msg.From, recipient, process, quantity)
	if err != nil {
		return err
	}
	p.hooks.EmitExternalTransfer(ctx, recipient, process, mv)

	// Only the debit exists locally; the remote process credits the
	// recipient out of band.
	p.send(ctx, notice.ExternalDebit(recipient, process, mv))
	return nil
}

// ──────────────────────────────────────────────────
// External-target administration
// ──────────────────────────────────────────────────

func (p *Process) handleAddExternalTargets(ctx context.Context, msg Message) error {
	targets, err := p.targetsTag(msg)
	if err != nil {
		return err
	}
	if err := p.gate.Add(targets...); err != nil {
		return err
	}

	p.send(ctx, notice.Response(msg.From, ActionAddExternalTargets).
		With(notice.TagTargets, strings.Join(p.gate.Targets(), ",")))
	return nil
}

func (p *Process) handleRemoveExternalTargets(ctx context.Context, msg Message) error {
	targets, err := p.targetsTag(msg)
	if err != nil {
		return err
	}
	if err := p.gate.Remove(targets...); err != nil {
		return err
	}

	p.send(ctx, notice.Response(msg.From, ActionRemoveExternalTargets).
		With(notice.TagTargets, strings.Join(p.gate.Targets(), ",")))
	return nil
}

// targetsTag authorizes the caller as owner and splits the
// comma-separated Targets tag.
func (p *Process) targetsTag(msg Message) ([]string, error) {
	if msg.From != p.owner {
		return nil, fmt.Errorf("address %s is not the owner: %w", msg.From, ErrUnauthorized)
	}

	raw, err := requireTag(msg, notice.TagTargets)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, ",")
	targets := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil, types.ValidationError{Field: notice.TagTargets, Message: "must name at least one target"}
	}
	return targets, nil
}

// ──────────────────────────────────────────────────
// Tag helpers
// ──────────────────────────────────────────────────

func requireTag(msg Message, key string) (string, error) {
	v := msg.Tag(key)
	if v == "" {
		return "", types.ValidationError{Field: key, Message: "is required"}
	}
	return v, nil
}

func quantityTag(msg Message) (types.Quantity, error) {
	raw, err := requireTag(msg, notice.TagQuantity)
	if err != nil {
		return types.Zero(), err
	}
	q, err := types.Parse(raw)
	if err != nil {
		return types.Zero(), types.ValidationError{Field: notice.TagQuantity, Message: fmt.Sprintf("%q is not a decimal integer", raw)}
	}
	return q, nil
}
