package hook

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/tally/proposal"
	"github.com/xraph/tally/token"
	"github.com/xraph/tally/types"
)

// Registry manages all registered hooks and provides efficient
// dispatch. It uses type-cached discovery so emitting an event only
// touches the hooks that subscribe to it.
type Registry struct {
	mu      sync.RWMutex
	hooks   []Hook
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached hook lists for efficient dispatch
	onInit             []OnInit
	onMint             []OnMint
	onBurn             []OnBurn
	onTransfer         []OnTransfer
	onExternalTransfer []OnExternalTransfer
	onBurnRequest      []OnBurnRequest
	onApproval         []OnApproval
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-call hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a hook to the registry and caches its interfaces.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.hooks {
		if existing.Name() == h.Name() {
			return fmt.Errorf("hook: duplicate registration: %s", h.Name())
		}
	}

	r.hooks = append(r.hooks, h)

	// Type-switch to cache interfaces
	if v, ok := h.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := h.(OnMint); ok {
		r.onMint = append(r.onMint, v)
	}
	if v, ok := h.(OnBurn); ok {
		r.onBurn = append(r.onBurn, v)
	}
	if v, ok := h.(OnTransfer); ok {
		r.onTransfer = append(r.onTransfer, v)
	}
	if v, ok := h.(OnExternalTransfer); ok {
		r.onExternalTransfer = append(r.onExternalTransfer, v)
	}
	if v, ok := h.(OnBurnRequest); ok {
		r.onBurnRequest = append(r.onBurnRequest, v)
	}
	if v, ok := h.(OnApproval); ok {
		r.onApproval = append(r.onApproval, v)
	}

	r.logger.Info("hook registered",
		"name", h.Name(),
		"interfaces", implementedInterfaces(h),
	)

	return nil
}

// implementedInterfaces returns the event interfaces the hook
// subscribes to.
func implementedInterfaces(h Hook) []string {
	var interfaces []string
	v := reflect.TypeOf(h)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnMint)(nil)).Elem(), "OnMint")
	checkInterface(reflect.TypeOf((*OnBurn)(nil)).Elem(), "OnBurn")
	checkInterface(reflect.TypeOf((*OnTransfer)(nil)).Elem(), "OnTransfer")
	checkInterface(reflect.TypeOf((*OnExternalTransfer)(nil)).Elem(), "OnExternalTransfer")
	checkInterface(reflect.TypeOf((*OnBurnRequest)(nil)).Elem(), "OnBurnRequest")
	checkInterface(reflect.TypeOf((*OnApproval)(nil)).Elem(), "OnApproval")

	return interfaces
}

// Get returns a hook by name.
func (r *Registry) Get(name string) Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.hooks {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// List returns all registered hooks.
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Hook, len(r.hooks))
	copy(result, r.hooks)
	return result
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all hooks that implement it.
func (r *Registry) EmitInit(ctx context.Context, meta token.Metadata, balances map[string]types.Quantity) {
	r.mu.RLock()
	hooks := r.onInit
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnInit(ctx, meta, balances)
		}); err != nil {
			r.logger.Warn("hook OnInit failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitMint emits a mint event.
func (r *Registry) EmitMint(ctx context.Context, caller string, mv token.Movement) {
	r.mu.RLock()
	hooks := r.onMint
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnMint(ctx, caller, mv)
		}); err != nil {
			r.logger.Warn("hook OnMint failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitBurn emits a burn executed event.
func (r *Registry) EmitBurn(ctx context.Context, p proposal.Proposal, mv token.Movement) {
	r.mu.RLock()
	hooks := r.onBurn
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnBurn(ctx, p, mv)
		}); err != nil {
			r.logger.Warn("hook OnBurn failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransfer emits an internal transfer event.
func (r *Registry) EmitTransfer(ctx context.Context, tr token.Transfer) {
	r.mu.RLock()
	hooks := r.onTransfer
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnTransfer(ctx, tr)
		}); err != nil {
			r.logger.Warn("hook OnTransfer failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitExternalTransfer emits an external debit event.
func (r *Registry) EmitExternalTransfer(ctx context.Context, recipient, process string, mv token.Movement) {
	r.mu.RLock()
	hooks := r.onExternalTransfer
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnExternalTransfer(ctx, recipient, process, mv)
		}); err != nil {
			r.logger.Warn("hook OnExternalTransfer failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitBurnRequest emits a burn proposal created event.
func (r *Registry) EmitBurnRequest(ctx context.Context, p proposal.Proposal) {
	r.mu.RLock()
	hooks := r.onBurnRequest
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnBurnRequest(ctx, p)
		}); err != nil {
			r.logger.Warn("hook OnBurnRequest failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitApproval emits an approval recorded event.
func (r *Registry) EmitApproval(ctx context.Context, approver string, ap proposal.Approval) {
	r.mu.RLock()
	hooks := r.onApproval
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnApproval(ctx, approver, ap)
		}); err != nil {
			r.logger.Warn("hook OnApproval failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a hook function with a timeout. Hooks must
// never block message handling.
func (r *Registry) callWithTimeout(ctx context.Context, hookName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.timeout):
		return fmt.Errorf("hook timeout: %s", hookName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
