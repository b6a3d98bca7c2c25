package network

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// ErrNetworkSwitchFailed matches every *SwitchError.
var ErrNetworkSwitchFailed = errors.New("network switch failed")

// State is the relation between the provider's chain and the target.
type State int

const (
	Mismatched State = iota
	Matched
)

func (s State) String() string {
	if s == Matched {
		return "matched"
	}
	return "mismatched"
}

// SwitchError reports which step of EnsureChain failed. The provider error is
// kept so its code stays recoverable.
type SwitchError struct {
	Step    string // provider method that failed
	ChainID uint64
	Err     error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("switching to chain %d: %s: %v", e.ChainID, e.Step, e.Err)
}

func (e *SwitchError) Unwrap() []error { return []error{ErrNetworkSwitchFailed, e.Err} }

// Manager keeps a provider on one target chain.
type Manager struct {
	provider provider.Provider
	target   ChainDescriptor
	timeout  time.Duration
	logger   log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds every provider request.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithLogger overrides the default logger.
func WithLogger(l log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a manager targeting target.
func NewManager(p provider.Provider, target ChainDescriptor, opts ...Option) *Manager {
	m := &Manager{provider: p, target: target, timeout: 30 * time.Second, logger: log.Root()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Target returns the chain the manager keeps the provider on.
func (m *Manager) Target() ChainDescriptor { return m.target }

// Check reads the provider's chain id and compares it with the target.
func (m *Manager) Check(ctx context.Context) (State, uint64, error) {
	id, err := m.chainID(ctx)
	if err != nil {
		return Mismatched, 0, err
	}
	return m.stateOf(id), id, nil
}

// EnsureChain moves the provider to the target chain. If the provider does
// not know the chain it is added once and the switch is retried once; any
// other failure is returned as a *SwitchError.
func (m *Manager) EnsureChain(ctx context.Context) (State, error) {
	id, err := m.chainID(ctx)
	if err != nil {
		return Mismatched, m.fail(provider.MethodChainID, err)
	}
	if m.stateOf(id) == Matched {
		return Matched, nil
	}
	m.logger.Info("Switching network", "from", id, "to", m.target.ID(), "name", m.target.ChainName)

	err = m.request(ctx, provider.MethodSwitchChain, provider.SwitchChainRequest{ChainID: m.target.ChainID})
	if err == nil {
		return Matched, nil
	}
	if !provider.IsCode(err, provider.CodeUnrecognizedChain) {
		return Mismatched, m.fail(provider.MethodSwitchChain, err)
	}

	m.logger.Info("Chain unknown to wallet, adding it", "chain", m.target.ChainName)
	if err := m.request(ctx, provider.MethodAddChain, m.target); err != nil {
		return Mismatched, m.fail(provider.MethodAddChain, err)
	}
	if err := m.request(ctx, provider.MethodSwitchChain, provider.SwitchChainRequest{ChainID: m.target.ChainID}); err != nil {
		return Mismatched, m.fail(provider.MethodSwitchChain, err)
	}
	return Matched, nil
}

// Follow calls fn with the new state every time the provider reports a chain
// change.
func (m *Manager) Follow(n provider.Notifier, fn func(State, uint64)) error {
	return n.OnChainChanged(func(id *big.Int) {
		if !id.IsUint64() {
			fn(Mismatched, 0)
			return
		}
		fn(m.stateOf(id.Uint64()), id.Uint64())
	})
}

func (m *Manager) stateOf(id uint64) State {
	if id == m.target.ID() {
		return Matched
	}
	return Mismatched
}

func (m *Manager) chainID(ctx context.Context) (uint64, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	id, err := provider.Call[hexutil.Uint64](ctx, m.provider, provider.MethodChainID)
	return uint64(id), err
}

func (m *Manager) request(ctx context.Context, method string, param any) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	_, err := m.provider.Request(ctx, method, param)
	return err
}

func (m *Manager) fail(step string, err error) error {
	m.logger.Debug("Network switch failed", "step", step, "err", err)
	return &SwitchError{Step: step, ChainID: m.target.ID(), Err: err}
}

func (m *Manager) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}
