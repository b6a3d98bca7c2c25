package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/Mohsinsiddi/lumen/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// DefaultGasLimit is used when the node cannot estimate a contract call.
const DefaultGasLimit = uint64(200_000)

// Dialer connects to an upstream node for a chain.
type Dialer func(ctx context.Context, chain network.ChainDescriptor) (provider.Provider, error)

// RPCDialer picks one of the chain's URLs with picker and dials it.
func RPCDialer(urls func(network.ChainDescriptor) []string, picker *rpc.Picker) Dialer {
	return func(ctx context.Context, chain network.ChainDescriptor) (provider.Provider, error) {
		url, err := rpc.Select(ctx, urls(chain), chain.ID(), picker)
		if err != nil {
			return nil, &provider.Error{Code: provider.CodeChainDisconnected, Message: chain.ChainName + ": " + err.Error(), Err: err}
		}
		return provider.DialRPC(ctx, url)
	}
}

// Provider is the CLI's wallet. It answers account and chain requests
// itself, signs eth_sendTransaction and personal_sign with the selected key,
// and forwards everything else to a node of the active chain.
type Provider struct {
	*provider.Events

	signer  *Signer
	account *common.Address
	dial    Dialer
	save    func(config.WalletState) error
	logger  log.Logger

	mu         sync.Mutex
	state      config.WalletState
	upstream   provider.Provider
	upstreamID uint64
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithSigner lets the wallet sign for the signer's address.
func WithSigner(s *Signer) ProviderOption {
	return func(p *Provider) {
		p.signer = s
		a := s.Address()
		p.account = &a
	}
}

// WithWatchAccount exposes an address the wallet cannot sign for.
func WithWatchAccount(a common.Address) ProviderOption {
	return func(p *Provider) { p.account = &a }
}

// WithDialer sets how upstream nodes are reached.
func WithDialer(d Dialer) ProviderOption {
	return func(p *Provider) { p.dial = d }
}

// WithStateSaver persists chain state after every switch or add.
func WithStateSaver(fn func(config.WalletState) error) ProviderOption {
	return func(p *Provider) { p.save = fn }
}

// NewProvider returns a wallet starting from state.
func NewProvider(state config.WalletState, opts ...ProviderOption) *Provider {
	p := &Provider{
		Events: provider.NewEvents(),
		state:  config.WalletState{ChainID: state.ChainID, Chains: append([]network.ChainDescriptor(nil), state.Chains...)},
		save:   func(config.WalletState) error { return nil },
		logger: log.Root().With("component", "wallet"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns a copy of the chain state.
func (p *Provider) State() config.WalletState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Provider) snapshotLocked() config.WalletState {
	return config.WalletState{ChainID: p.state.ChainID, Chains: append([]network.ChainDescriptor(nil), p.state.Chains...)}
}

// Request implements provider.Provider.
func (p *Provider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	p.logger.Debug("Wallet request", "method", method)
	var (
		res any
		err error
	)
	switch method {
	case provider.MethodAccounts:
		res = p.accounts()
	case provider.MethodRequestAccounts:
		if p.account == nil {
			return nil, provider.NewError(provider.CodeUnauthorized, "no wallet selected, run 'lumen wallet add'")
		}
		res = p.accounts()
	case provider.MethodChainID:
		p.mu.Lock()
		res = hexutil.Uint64(p.state.ChainID)
		p.mu.Unlock()
	case provider.MethodSwitchChain:
		err = p.switchChain(params)
	case provider.MethodAddChain:
		err = p.addChain(params)
	case provider.MethodSendTransaction:
		res, err = p.sendTransaction(ctx, params)
	case "personal_sign":
		res, err = p.personalSign(params)
	case provider.MethodEncryptionPublicKey, provider.MethodDecrypt:
		return nil, provider.NewError(provider.CodeUnsupportedMethod, "%s is not supported by the CLI wallet", method)
	default:
		up, uerr := p.connect(ctx)
		if uerr != nil {
			return nil, uerr
		}
		return up.Request(ctx, method, params...)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (p *Provider) accounts() []common.Address {
	if p.account == nil {
		return []common.Address{}
	}
	return []common.Address{*p.account}
}

func (p *Provider) switchChain(params []any) error {
	req, err := param[provider.SwitchChainRequest](params, 0)
	if err != nil {
		return err
	}
	id := uint64(req.ChainID)

	p.mu.Lock()
	if id == p.state.ChainID {
		p.mu.Unlock()
		return nil
	}
	if _, ok := p.chainLocked(id); !ok {
		p.mu.Unlock()
		return provider.NewError(provider.CodeUnrecognizedChain, "Unrecognized chain ID %s. Try adding the chain using wallet_addEthereumChain first.", hexutil.EncodeUint64(id))
	}
	p.state.ChainID = id
	p.dropUpstreamLocked()
	state := p.snapshotLocked()
	p.mu.Unlock()

	if err := p.save(state); err != nil {
		return &provider.Error{Code: provider.CodeInternal, Message: "saving wallet state", Err: err}
	}
	p.logger.Info("Switched chain", "chain", id)
	p.EmitChainChanged(new(big.Int).SetUint64(id))
	return nil
}

func (p *Provider) addChain(params []any) error {
	desc, err := param[network.ChainDescriptor](params, 0)
	if err != nil {
		return err
	}
	if err := desc.Validate(); err != nil {
		return &provider.Error{Code: provider.CodeInvalidParams, Message: err.Error(), Err: err}
	}

	p.mu.Lock()
	replaced := false
	for i, c := range p.state.Chains {
		if c.ID() == desc.ID() {
			p.state.Chains[i] = desc
			replaced = true
		}
	}
	if !replaced {
		p.state.Chains = append(p.state.Chains, desc)
	}
	if desc.ID() == p.upstreamID {
		p.dropUpstreamLocked()
	}
	state := p.snapshotLocked()
	p.mu.Unlock()

	if err := p.save(state); err != nil {
		return &provider.Error{Code: provider.CodeInternal, Message: "saving wallet state", Err: err}
	}
	p.logger.Info("Added chain", "chain", desc.ID(), "name", desc.ChainName)
	return nil
}

func (p *Provider) sendTransaction(ctx context.Context, params []any) (common.Hash, error) {
	req, err := param[provider.TxRequest](params, 0)
	if err != nil {
		return common.Hash{}, err
	}
	if p.signer == nil {
		return common.Hash{}, provider.NewError(provider.CodeUnauthorized, "wallet is watch-only and cannot sign")
	}
	if req.From != p.signer.Address() {
		return common.Hash{}, provider.NewError(provider.CodeUnauthorized, "cannot sign for %s", req.From)
	}
	up, err := p.connect(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	p.mu.Lock()
	chainID := new(big.Int).SetUint64(p.state.ChainID)
	p.mu.Unlock()

	value := new(big.Int)
	if req.Value != nil {
		value = req.Value.ToInt()
	}

	nonce, err := provider.Call[hexutil.Uint64](ctx, up, "eth_getTransactionCount", req.From, "pending")
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}
	gasPrice, err := provider.Call[hexutil.Big](ctx, up, "eth_gasPrice")
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}
	gas, err := provider.Call[hexutil.Uint64](ctx, up, "eth_estimateGas", req)
	if err != nil {
		p.logger.Warn("Gas estimation failed, using default limit", "err", err, "gas", DefaultGasLimit)
		gas = hexutil.Uint64(DefaultGasLimit)
	}

	price := gasPrice.ToInt()
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     uint64(nonce),
		GasTipCap: price,
		GasFeeCap: new(big.Int).Mul(price, big.NewInt(2)),
		Gas:       uint64(gas),
		To:        &req.To,
		Value:     value,
		Data:      req.Data,
	})
	raw, err := p.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	hash, err := provider.Call[common.Hash](ctx, up, "eth_sendRawTransaction", hexutil.Bytes(raw))
	if err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	p.logger.Debug("Broadcast transaction", "hash", hash, "nonce", uint64(nonce), "gas", uint64(gas))
	return hash, nil
}

func (p *Provider) personalSign(params []any) (hexutil.Bytes, error) {
	msg, err := param[hexutil.Bytes](params, 0)
	if err != nil {
		return nil, err
	}
	addr, err := param[common.Address](params, 1)
	if err != nil {
		return nil, err
	}
	if p.signer == nil || addr != p.signer.Address() {
		return nil, provider.NewError(provider.CodeUnauthorized, "cannot sign for %s", addr)
	}
	return p.signer.SignMessage(msg)
}

// connect returns the node of the active chain, dialing it on first use.
func (p *Provider) connect(ctx context.Context) (provider.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.state.ChainID
	if p.upstream != nil && p.upstreamID == id {
		return p.upstream, nil
	}
	chain, ok := p.chainLocked(id)
	if !ok || p.dial == nil {
		return nil, provider.NewError(provider.CodeChainDisconnected, "wallet has no rpc for chain %d", id)
	}
	up, err := p.dial(ctx, chain)
	if err != nil {
		return nil, err
	}
	p.upstream, p.upstreamID = up, id
	return up, nil
}

func (p *Provider) chainLocked(id uint64) (network.ChainDescriptor, bool) {
	for _, c := range p.state.Chains {
		if c.ID() == id {
			return c, true
		}
	}
	return network.ChainDescriptor{}, false
}

func (p *Provider) dropUpstreamLocked() {
	if c, ok := p.upstream.(interface{ Close() }); ok {
		c.Close()
	}
	p.upstream, p.upstreamID = nil, 0
}

// Close releases the upstream connection.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropUpstreamLocked()
}

// param decodes params[i] into T through its JSON form, so callers may pass
// typed structs or raw JSON alike.
func param[T any](params []any, i int) (T, error) {
	var out T
	if i >= len(params) {
		return out, provider.NewError(provider.CodeInvalidParams, "missing parameter %d", i)
	}
	raw, err := json.Marshal(params[i])
	if err != nil {
		return out, &provider.Error{Code: provider.CodeInvalidParams, Message: err.Error(), Err: err}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &provider.Error{Code: provider.CodeInvalidParams, Message: fmt.Sprintf("parameter %d: %v", i, err), Err: err}
	}
	return out, nil
}
