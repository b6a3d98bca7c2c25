// Package chapter is a typed client for the chapter, chapter mapper, factory,
// light source and token contracts. Every method resolves its signature in
// the method registry and goes through a contract.Dispatcher.
package chapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lumen/internal/contract"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// MaxNameLength is the longest chapter name accepted, in bytes.
const MaxNameLength = 100

// Errors.
var (
	ErrNameTooLong         = fmt.Errorf("chapter name longer than %d bytes", MaxNameLength)
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidCycles       = errors.New("cycles must be positive")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrMismatchedResult    = errors.New("result arrays differ in length")
)

// Addresses are the fixed contracts the client talks to. Chapters themselves
// are addressed per call.
type Addresses struct {
	Factory     common.Address
	Lux         common.Address
	Mapper      common.Address
	LightSource common.Address
}

// Client is the typed facade. It is safe for concurrent use as long as the
// dispatcher is.
type Client struct {
	d      *contract.Dispatcher
	reg    *method.Registry
	addrs  Addresses
	logger log.Logger
}

// NewClient builds a client over d. reg must contain the built-in tables.
func NewClient(d *contract.Dispatcher, reg *method.Registry, addrs Addresses) *Client {
	return &Client{d: d, reg: reg, addrs: addrs, logger: log.Root().With("pkg", "chapter")}
}

// Addresses returns the configured contract addresses.
func (c *Client) Addresses() Addresses { return c.addrs }

// Dispatcher returns the underlying dispatcher.
func (c *Client) Dispatcher() *contract.Dispatcher { return c.d }

// account returns the connected account or contract.ErrNoActiveAccount.
func (c *Client) account() (common.Address, error) {
	a, ok := c.d.Account()
	if !ok {
		return common.Address{}, contract.ErrNoActiveAccount
	}
	return a, nil
}

func (c *Client) call(ctx context.Context, to common.Address, sig string, args ...any) ([]any, error) {
	m, err := c.reg.Lookup(sig)
	if err != nil {
		return nil, err
	}
	out, err := c.d.Call(ctx, to, m, args...)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", m.Name, to.Hex(), err)
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, to common.Address, sig string, args ...any) (common.Hash, error) {
	m, err := c.reg.Lookup(sig)
	if err != nil {
		return common.Hash{}, err
	}
	hash, err := c.d.SendTransaction(ctx, to, m, nil, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s on %s: %w", m.Name, to.Hex(), err)
	}
	c.logger.Info("Transaction sent", "method", m.Name, "to", to, "hash", hash)
	return hash, nil
}

// callOne calls a single-output method and asserts its value.
func callOne[T any](ctx context.Context, c *Client, to common.Address, sig string, as func(any) (T, error), args ...any) (T, error) {
	var zero T
	out, err := c.call(ctx, to, sig, args...)
	if err != nil {
		return zero, err
	}
	v, err := as(out[0])
	if err != nil {
		return zero, fmt.Errorf("%s: %w", sig, err)
	}
	return v, nil
}

// request passes a raw provider method through, for wallet capabilities the
// client does not model (encryption key access).
func (c *Client) request(ctx context.Context, method string, params ...any) (string, error) {
	return provider.Call[string](ctx, c.d.Provider(), method, params...)
}

// EncryptionPublicKey asks the wallet for account's encryption public key.
func (c *Client) EncryptionPublicKey(ctx context.Context, account common.Address) (string, error) {
	return c.request(ctx, provider.MethodEncryptionPublicKey, account)
}

// Decrypt asks the wallet to decrypt ciphertext for account.
func (c *Client) Decrypt(ctx context.Context, ciphertext string, account common.Address) (string, error) {
	return c.request(ctx, provider.MethodDecrypt, ciphertext, account)
}

// ValidateName checks a chapter name before it is sent.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ParseAddress parses a hex address strictly.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
