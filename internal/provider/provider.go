// Package provider defines the wallet capability the dispatch layer talks to:
// a JSON-RPC style request function plus account/chain change notifications.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// RPC methods used across the application.
const (
	MethodChainID             = "eth_chainId"
	MethodAccounts            = "eth_accounts"
	MethodRequestAccounts     = "eth_requestAccounts"
	MethodCall                = "eth_call"
	MethodSendTransaction     = "eth_sendTransaction"
	MethodSwitchChain         = "wallet_switchEthereumChain"
	MethodAddChain            = "wallet_addEthereumChain"
	MethodEncryptionPublicKey = "eth_getEncryptionPublicKey"
	MethodDecrypt             = "eth_decrypt"
)

// Provider sends one request and returns the raw JSON result. Failures carry
// a code recoverable with Code.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, method string, params ...any) (json.RawMessage, error)

// Request implements Provider.
func (f Func) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return f(ctx, method, params...)
}

// Call sends a request and unmarshals the result into T.
func Call[T any](ctx context.Context, p Provider, method string, params ...any) (T, error) {
	var out T
	raw, err := p.Request(ctx, method, params...)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%s: parsing result: %w", method, err)
	}
	return out, nil
}
