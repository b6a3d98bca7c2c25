package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// DefaultTimeout bounds each provider request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Dispatch errors.
var (
	ErrNoActiveAccount = errors.New("no active wallet account")
	ErrNotReadOnly     = errors.New("method is not read-only, send a transaction instead")
	ErrNotWritable     = errors.New("method is read-only, use a call instead")
)

// Dispatcher sends encoded calls through a provider. The connected account is
// the only mutable state and is updated by Connect or accountsChanged.
type Dispatcher struct {
	provider provider.Provider
	timeout  time.Duration
	logger   log.Logger

	mu      sync.RWMutex
	account *common.Address
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds every provider request. Zero or negative disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(x *Dispatcher) { x.timeout = d }
}

// WithAccount preselects the sending account.
func WithAccount(a common.Address) Option {
	return func(x *Dispatcher) { x.account = &a }
}

// WithLogger overrides the default logger.
func WithLogger(l log.Logger) Option {
	return func(x *Dispatcher) { x.logger = l }
}

// NewDispatcher wraps p. If p is a provider.Notifier the dispatcher follows
// its accountsChanged events.
func NewDispatcher(p provider.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{provider: p, timeout: DefaultTimeout, logger: log.Root()}
	for _, o := range opts {
		o(d)
	}
	if n, ok := p.(provider.Notifier); ok {
		if err := n.OnAccountsChanged(d.setAccounts); err != nil {
			d.logger.Warn("Could not follow account changes", "err", err)
		}
	}
	return d
}

// Provider returns the underlying provider.
func (d *Dispatcher) Provider() provider.Provider { return d.provider }

// Connect asks the provider for accounts and selects the first one.
func (d *Dispatcher) Connect(ctx context.Context) (common.Address, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()

	accounts, err := provider.Call[[]common.Address](ctx, d.provider, provider.MethodRequestAccounts)
	if err != nil {
		return common.Address{}, fmt.Errorf("requesting accounts: %w", err)
	}
	d.setAccounts(accounts)
	a, ok := d.Account()
	if !ok {
		return common.Address{}, ErrNoActiveAccount
	}
	d.logger.Debug("Wallet connected", "account", a)
	return a, nil
}

// Account returns the connected account, if any.
func (d *Dispatcher) Account() (common.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.account == nil {
		return common.Address{}, false
	}
	return *d.account, true
}

func (d *Dispatcher) setAccounts(accounts []common.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(accounts) == 0 {
		d.account = nil
		return
	}
	a := accounts[0]
	d.account = &a
}

// Call executes a read-only method at to against the latest state and decodes
// the result with the method's output schema.
func (d *Dispatcher) Call(ctx context.Context, to common.Address, m *method.Method, args ...any) ([]any, error) {
	if !m.IsView() {
		return nil, fmt.Errorf("%s: %w", m.Signature, ErrNotReadOnly)
	}
	payload, err := BuildCall(m, args)
	if err != nil {
		return nil, err
	}
	raw, err := d.CallRaw(ctx, to, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Signature, err)
	}
	out, err := abi.Decode(raw, m.OutputTypes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Signature, err)
	}
	return out, nil
}

// CallRaw sends an already built payload with eth_call and returns the raw
// return data.
func (d *Dispatcher) CallRaw(ctx context.Context, to common.Address, payload *CallPayload) ([]byte, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()

	req := provider.CallRequest{To: to, Data: payload.Bytes()}
	d.logger.Debug("eth_call", "to", to, "selector", payload.Selector, "bytes", payload.Len())

	res, err := d.provider.Request(ctx, provider.MethodCall, req, provider.BlockLatest)
	if err != nil {
		return nil, err
	}
	return decodeHexResult(res)
}

// decodeHexResult turns an eth_call JSON result into bytes. Anything other
// than a 0x string is a malformed response.
func decodeHexResult(res json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(res, &s); err != nil {
		return nil, &abi.DecodeError{Index: -1, Err: fmt.Errorf("result is not a hex string: %s", truncate(res))}
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, &abi.DecodeError{Index: -1, Err: fmt.Errorf("result %q: %w", truncate([]byte(s)), err)}
	}
	return data, nil
}

// SendTransaction submits a state-changing call from the connected account and
// returns the transaction hash without waiting for it to be mined. A nil
// value sends zero.
func (d *Dispatcher) SendTransaction(ctx context.Context, to common.Address, m *method.Method, value *big.Int, args ...any) (common.Hash, error) {
	if m.IsView() {
		return common.Hash{}, fmt.Errorf("%s: %w", m.Signature, ErrNotWritable)
	}
	from, ok := d.Account()
	if !ok {
		return common.Hash{}, ErrNoActiveAccount
	}
	if value == nil {
		value = new(big.Int)
	} else if value.Sign() < 0 {
		return common.Hash{}, fmt.Errorf("%s: negative value %s", m.Signature, value)
	}
	payload, err := BuildCall(m, args)
	if err != nil {
		return common.Hash{}, err
	}

	ctx, cancel := d.bound(ctx)
	defer cancel()

	req := provider.TxRequest{
		From:  from,
		To:    to,
		Data:  payload.Bytes(),
		Value: (*hexutil.Big)(value),
	}
	d.logger.Debug("eth_sendTransaction", "from", from, "to", to, "method", m.Signature, "value", value)

	hash, err := provider.Call[common.Hash](ctx, d.provider, provider.MethodSendTransaction, req)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: %w", m.Signature, err)
	}
	d.logger.Info("Transaction submitted", "method", m.Name, "hash", hash)
	return hash, nil
}

func (d *Dispatcher) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

func truncate(b []byte) string {
	const limit = 64
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
