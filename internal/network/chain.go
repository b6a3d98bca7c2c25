// Package network describes target chains and keeps the wallet provider on
// the expected one.
package network

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// ErrInvalidChain is returned by Validate.
var ErrInvalidChain = errors.New("invalid chain descriptor")

// Currency is the native currency of a chain.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainDescriptor carries what a wallet needs to identify and register a
// chain. It marshals to the wallet_addEthereumChain parameter shape.
type ChainDescriptor struct {
	ChainID           hexutil.Uint64 `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
	NativeCurrency    Currency       `json:"nativeCurrency"`
}

// ID returns the numeric chain id.
func (c ChainDescriptor) ID() uint64 { return uint64(c.ChainID) }

// Slug is the lowercase, dash-separated chain name used on the command line.
func (c ChainDescriptor) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(c.ChainName)), "-")
}

// Explorer returns the first block explorer URL, or "".
func (c ChainDescriptor) Explorer() string {
	if len(c.BlockExplorerURLs) == 0 {
		return ""
	}
	return strings.TrimRight(c.BlockExplorerURLs[0], "/")
}

// TxURL links a transaction hash on the explorer, or returns "".
func (c ChainDescriptor) TxURL(hash string) string {
	if e := c.Explorer(); e != "" {
		return e + "/tx/" + hash
	}
	return ""
}

// AddressURL links an address on the explorer, or returns "".
func (c ChainDescriptor) AddressURL(addr string) string {
	if e := c.Explorer(); e != "" {
		return e + "/address/" + addr
	}
	return ""
}

// Validate checks the fields a wallet requires before adding a chain.
func (c ChainDescriptor) Validate() error {
	switch {
	case c.ChainID == 0:
		return fmt.Errorf("%w: chain id is zero", ErrInvalidChain)
	case strings.TrimSpace(c.ChainName) == "":
		return fmt.Errorf("%w: chain name is empty", ErrInvalidChain)
	case len(c.RPCURLs) == 0:
		return fmt.Errorf("%w: %s has no rpc urls", ErrInvalidChain, c.ChainName)
	case c.NativeCurrency.Symbol == "":
		return fmt.Errorf("%w: %s has no currency symbol", ErrInvalidChain, c.ChainName)
	}
	for _, raw := range append(append([]string(nil), c.RPCURLs...), c.BlockExplorerURLs...) {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: bad url %q", ErrInvalidChain, raw)
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			return fmt.Errorf("%w: unsupported url scheme %q", ErrInvalidChain, raw)
		}
	}
	return nil
}

// SonicBlazeTestnet is the chain the chapter contracts are deployed on.
func SonicBlazeTestnet() ChainDescriptor {
	return ChainDescriptor{
		ChainID:           0xd206,
		ChainName:         "Sonic Blaze Testnet",
		RPCURLs:           []string{"https://rpc.blaze.soniclabs.com"},
		BlockExplorerURLs: []string{"https://testnet.sonicscan.org"},
		NativeCurrency:    Currency{Name: "Sonic", Symbol: "S", Decimals: 18},
	}
}

// SonicMainnet is the Sonic production chain.
func SonicMainnet() ChainDescriptor {
	return ChainDescriptor{
		ChainID:           146,
		ChainName:         "Sonic",
		RPCURLs:           []string{"https://rpc.soniclabs.com"},
		BlockExplorerURLs: []string{"https://sonicscan.org"},
		NativeCurrency:    Currency{Name: "Sonic", Symbol: "S", Decimals: 18},
	}
}

// Registry indexes chain descriptors by slug and id.
type Registry struct {
	chains []ChainDescriptor
	bySlug map[string]int
	byID   map[uint64]int
}

// NewRegistry builds a registry. Later entries replace earlier ones with the
// same id.
func NewRegistry(chains ...ChainDescriptor) *Registry {
	r := &Registry{bySlug: make(map[string]int), byID: make(map[uint64]int)}
	for _, c := range chains {
		r.Put(c)
	}
	return r
}

// Builtin returns the chains the application ships with.
func Builtin() *Registry {
	return NewRegistry(SonicBlazeTestnet(), SonicMainnet())
}

// Put adds c, replacing any chain with the same id.
func (r *Registry) Put(c ChainDescriptor) {
	i, ok := r.byID[c.ID()]
	if ok {
		delete(r.bySlug, r.chains[i].Slug())
		r.chains[i] = c
	} else {
		i = len(r.chains)
		r.chains = append(r.chains, c)
		r.byID[c.ID()] = i
	}
	r.bySlug[c.Slug()] = i
}

// All returns every chain in insertion order.
func (r *Registry) All() []ChainDescriptor {
	return r.chains
}

// GetByID finds a chain by numeric id.
func (r *Registry) GetByID(id uint64) (ChainDescriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return ChainDescriptor{}, fmt.Errorf("%w: id %d", ErrChainNotFound, id)
	}
	return r.chains[i], nil
}

// Get resolves a slug, a chain name, or a decimal or 0x chain id.
func (r *Registry) Get(key string) (ChainDescriptor, error) {
	k := strings.TrimSpace(key)
	if i, ok := r.bySlug[strings.Join(strings.Fields(strings.ToLower(k)), "-")]; ok {
		return r.chains[i], nil
	}
	if id, err := ParseChainID(k); err == nil {
		return r.GetByID(id)
	}
	return ChainDescriptor{}, fmt.Errorf("%w: %s", ErrChainNotFound, key)
}

// ParseChainID accepts decimal or 0x-prefixed hex.
func ParseChainID(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.DecodeUint64("0x" + strings.TrimLeft(s[2:], "0"))
	}
	return strconv.ParseUint(s, 10, 64)
}
