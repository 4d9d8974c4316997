package tally

import (
	"context"
	"log/slog"

	"github.com/xraph/tally/config"
	"github.com/xraph/tally/gate"
	"github.com/xraph/tally/hook"
	"github.com/xraph/tally/notice"
	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
	"github.com/xraph/tally/validate"
)

// Process is a token ledger driven by inbound host messages. It owns
// the balance ledger, the burn/mint governance registry, and the
// external-transfer gate, and emits outbound notices through the
// configured Sender after each mutation commits.
type Process struct {
	self  string
	owner string

	ledger   *token.Ledger
	registry *proposal.Registry
	gate     *gate.Gate
	hooks    *hook.Registry
	sender   notice.Sender
	logger   *slog.Logger

	errorNotices bool
}

// New creates a Process for the host identity self. Unless WithOwner
// or WithRegistry override it, the owner defaults to self and is
// seeded as the sole authorized minter and burner.
func New(self string, opts ...Option) (*Process, error) {
	if err := validate.Address.Validate("self", self); err != nil {
		return nil, err
	}

	p := &Process{
		self:   self,
		owner:  self,
		ledger: token.NewLedger(),
		hooks:  hook.NewRegistry(),
		sender: notice.Discard,
		logger: slog.Default(),
	}
	p.gate = gate.New(p.ledger)

	for _, opt := range opts {
		opt(p)
	}

	if p.registry == nil {
		p.registry = proposal.NewRegistry(
			proposal.WithMinters(p.owner),
			proposal.WithBurners(p.owner),
		)
	}

	return p, nil
}

// Option configures a Process instance.
type Option func(*Process)

// WithOwner sets the administrative principal. The owner gates the
// external-target administration actions and, absent WithRegistry, is
// the default minter and burner.
func WithOwner(owner string) Option {
	return func(p *Process) {
		p.owner = owner
	}
}

// WithRegistry replaces the default governance registry.
func WithRegistry(r *proposal.Registry) Option {
	return func(p *Process) {
		p.registry = r
	}
}

// WithSender sets the outbound notice transport. Without it notices
// are discarded.
func WithSender(s notice.Sender) Option {
	return func(p *Process) {
		p.sender = s
	}
}

// WithHook registers an event hook.
func WithHook(h hook.Hook) Option {
	return func(p *Process) {
		_ = p.hooks.Register(h) //nolint:errcheck // best-effort hook registration during init
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Process) {
		p.logger = logger
		p.hooks.WithLogger(logger)
	}
}

// WithExternalTargets seeds the authorized external-transfer targets.
func WithExternalTargets(targets ...string) Option {
	return func(p *Process) {
		_ = p.gate.Add(targets...) //nolint:errcheck // best-effort seeding during init
	}
}

// WithErrorNotices makes failed actions send an "<Action>-Error"
// notice back to the caller in addition to returning the error.
func WithErrorNotices() Option {
	return func(p *Process) {
		p.errorNotices = true
	}
}

// FromConfig assembles a Process from a configuration and initializes
// the token. Options run after the configuration is applied, so they
// can override the sender, logger, or hooks but not re-init the token.
func FromConfig(self string, cfg config.Config, opts ...Option) (*Process, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	regOpts := []proposal.Option{
		proposal.WithBurners(cfg.Governance.Burners...),
		proposal.WithMinters(cfg.Governance.Minters...),
		proposal.WithRequiredBurnApprovals(cfg.Governance.RequiredBurnApprovals),
		proposal.WithRequiredMintApprovals(cfg.Governance.RequiredMintApprovals),
	}
	if cfg.Governance.DistinctApprovers {
		regOpts = append(regOpts, proposal.WithDistinctApprovers())
	}

	all := make([]Option, 0, len(opts)+2)
	all = append(all,
		WithRegistry(proposal.NewRegistry(regOpts...)),
		WithExternalTargets(cfg.ExternalTargets...),
	)
	all = append(all, opts...)

	p, err := New(self, all...)
	if err != nil {
		return nil, err
	}

	balances, err := cfg.InitialBalances()
	if err != nil {
		return nil, err
	}

	meta := token.Metadata{
		Name:         cfg.Token.Name,
		Ticker:       cfg.Token.Ticker,
		Denomination: cfg.Token.Denomination,
		Logo:         cfg.Token.Logo,
	}
	if err := p.Init(context.Background(), meta, balances); err != nil {
		return nil, err
	}
	return p, nil
}

// ──────────────────────────────────────────────────
// Accessors
// ──────────────────────────────────────────────────

// Self returns the host process identity.
func (p *Process) Self() string { return p.self }

// Owner returns the administrative principal.
func (p *Process) Owner() string { return p.owner }

// Ledger returns the balance ledger.
func (p *Process) Ledger() *token.Ledger { return p.ledger }

// Registry returns the governance registry.
func (p *Process) Registry() *proposal.Registry { return p.registry }

// Gate returns the external-transfer gate.
func (p *Process) Gate() *gate.Gate { return p.gate }

// Hooks returns the hook registry.
func (p *Process) Hooks() *hook.Registry { return p.hooks }

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Init performs the one-time token initialization. A second call
// fails with ErrAlreadyInitialized and changes nothing.
func (p *Process) Init(ctx context.Context, meta token.Metadata, balances map[string]types.Quantity) error {
	if err := p.ledger.Init(meta, balances); err != nil {
		return err
	}

	p.hooks.EmitInit(ctx, meta, balances)
	p.logger.Info("token initialized",
		"name", meta.Name,
		"ticker", meta.Ticker,
		"denomination", meta.Denomination,
		"holders", len(balances),
	)
	return nil
}

// send delivers a notice, logging delivery failures. Notices fire
// after the mutation commits; a failed send never rolls it back.
func (p *Process) send(ctx context.Context, n notice.Notice) {
	if err := p.sender.Send(ctx, n); err != nil {
		p.logger.Warn("notice send failed",
			"action", n.Action,
			"target", n.Target,
			"error", err,
		)
	}
}
