package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPC is a Provider backed by a plain JSON-RPC node. It carries no accounts
// and cannot sign; wallet.Provider layers those on top.
type RPC struct {
	url    string
	client *rpc.Client
}

// DialRPC connects to a JSON-RPC endpoint (http, https, ws or ipc).
func DialRPC(ctx context.Context, url string) (*RPC, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, &Error{Code: CodeDisconnected, Message: fmt.Sprintf("dialing %s", url), Err: err}
	}
	return &RPC{url: url, client: c}, nil
}

// NewRPC wraps an existing client.
func NewRPC(url string, c *rpc.Client) *RPC {
	return &RPC{url: url, client: c}
}

// URL returns the endpoint URL.
func (p *RPC) URL() string { return p.url }

// Request implements Provider.
func (p *RPC) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := p.client.CallContext(ctx, &raw, method, params...); err != nil {
		log.Debug("RPC request failed", "url", p.url, "method", method, "err", err)
		return nil, wrapRPCError(err)
	}
	return raw, nil
}

// Close releases the underlying connection.
func (p *RPC) Close() {
	p.client.Close()
}

func wrapRPCError(err error) error {
	var rerr rpc.Error
	if errors.As(err, &rerr) {
		e := &Error{Code: rerr.ErrorCode(), Message: rerr.Error(), Err: err}
		var derr rpc.DataError
		if errors.As(err, &derr) {
			e.Data = derr.ErrorData()
		}
		return e
	}
	// Transport failure: the node never answered.
	return &Error{Code: CodeDisconnected, Message: err.Error(), Err: err}
}
