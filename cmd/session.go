package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/Mohsinsiddi/lumen/internal/contract"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/Mohsinsiddi/lumen/internal/rpc"
	"github.com/Mohsinsiddi/lumen/internal/ui"
	"github.com/Mohsinsiddi/lumen/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// access says whether a command needs a key.
type access int

const (
	readOnly access = iota
	signing
)

// session is everything a contract command needs: the CLI wallet acting as
// provider, the network manager that put it on the target chain, and the
// dispatcher and chapter client on top.
type session struct {
	chain    network.ChainDescriptor
	account  *wallet.Wallet // nil when no wallet is configured
	provider *wallet.Provider
	network  *network.Manager
	disp     *contract.Dispatcher
	client   *chapter.Client
	reg      *method.Registry
}

func newWalletManager(withKeys bool) (*wallet.Manager, error) {
	opts := []wallet.Option{wallet.WithStore(wallet.NewConfigStore(cfg))}
	if withKeys {
		kc, err := wallet.OpenKeychain(cfg.Dir())
		if err != nil {
			return nil, err
		}
		opts = append(opts, wallet.WithKeyStore(kc))
	}
	return wallet.NewManager(opts...), nil
}

func contractAddresses() (chapter.Addresses, error) {
	var (
		a   chapter.Addresses
		err error
	)
	for _, f := range []struct {
		name string
		dst  *common.Address
	}{
		{"factory", &a.Factory},
		{"lux", &a.Lux},
		{"chapter-mapper", &a.Mapper},
		{"light-source", &a.LightSource},
	} {
		if *f.dst, err = cfg.Address(f.name); err != nil {
			return chapter.Addresses{}, err
		}
	}
	return a, nil
}

// openSession builds the wallet for the selected account and brings it to
// the target chain. Read-only sessions work without any wallet.
func openSession(ctx context.Context, mode access) (*session, error) {
	target, err := cfg.TargetChain()
	if err != nil {
		return nil, err
	}
	reg, err := method.Default()
	if err != nil {
		return nil, err
	}
	addrs, err := contractAddresses()
	if err != nil {
		return nil, err
	}
	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return nil, err
	}
	mgr, err := newWalletManager(false)
	if err != nil {
		return nil, err
	}

	opts := []wallet.ProviderOption{
		wallet.WithDialer(wallet.RPCDialer(cfg.RPCs, rpc.NewPicker(algo))),
		wallet.WithStateSaver(func(st config.WalletState) error {
			cfg.Wallet = st
			return cfg.Save()
		}),
	}
	w, err := mgr.Resolve(cfg.DefaultWallet)
	switch {
	case err == nil && mode == signing:
		// The keychain is opened only once a key is actually needed.
		if mgr, err = newWalletManager(w.CanSign()); err != nil {
			return nil, err
		}
		signer, err := mgr.Signer(w)
		if err != nil {
			return nil, err
		}
		opts = append(opts, wallet.WithSigner(signer))
	case err == nil:
		opts = append(opts, wallet.WithWatchAccount(w.Address))
	case mode == signing:
		return nil, err
	default:
		w = nil
	}

	wp := wallet.NewProvider(cfg.Wallet, opts...)
	s := &session{chain: target, account: w, provider: wp, reg: reg}
	s.disp = contract.NewDispatcher(wp, contract.WithTimeout(cfg.Timeout()))
	s.network = network.NewManager(wp, target, network.WithTimeout(cfg.Timeout()))
	s.client = chapter.NewClient(s.disp, reg, addrs)
	if err := s.network.Follow(wp, func(st network.State, id uint64) {
		log.Debug("Wallet chain changed", "chain", id, "state", st)
	}); err != nil {
		log.Warn("Could not follow chain changes", "err", err)
	}

	state, err := s.network.EnsureChain(ctx)
	if err != nil {
		wp.Close()
		return nil, err
	}
	log.Debug("Wallet on target chain", "chain", target.ChainName, "state", state)

	if w != nil {
		if _, err := s.disp.Connect(ctx); err != nil {
			wp.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) Close() { s.provider.Close() }

// me returns the connected account.
func (s *session) me() (common.Address, error) {
	a, ok := s.disp.Account()
	if !ok {
		return common.Address{}, fmt.Errorf("%w: add one with 'lumen wallet add' or pass --wallet", contract.ErrNoActiveAccount)
	}
	return a, nil
}

// sent prints a transaction hash with its explorer link.
func (s *session) sent(what string, hash common.Hash) {
	fmt.Println(ui.Success(what))
	fmt.Println("  " + ui.Meta("tx") + " " + ui.Addr(hash.Hex()))
	if url := s.chain.TxURL(hash.Hex()); url != "" {
		fmt.Println("  " + ui.Meta(url))
	}
}

// describe turns provider failures into a message with a next step.
func describe(err error) string {
	msg := ui.Err(err.Error())
	hint := ""
	switch {
	case provider.IsCode(err, provider.CodeUserRejected):
		hint = "The request was rejected."
	case provider.IsCode(err, provider.CodeUnauthorized):
		hint = "The selected wallet cannot sign. Import a key with 'lumen wallet import <name>'."
	case provider.IsCode(err, provider.CodeChainDisconnected), provider.IsCode(err, provider.CodeDisconnected):
		hint = "No RPC endpoint answered. Add one with 'lumen rpc add <chain> <url>'."
	case provider.IsCode(err, provider.CodeUnsupportedMethod):
		hint = "The lumen wallet does not support this request."
	case errors.Is(err, wallet.ErrWalletNotFound):
		hint = "List wallets with 'lumen wallet list'."
	case errors.Is(err, network.ErrNetworkSwitchFailed):
		hint = "Check the chain with 'lumen network status'."
	}
	if hint != "" {
		msg += "\n" + ui.Meta("  "+hint)
	}
	return msg
}
