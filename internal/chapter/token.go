package chapter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo describes an ERC-20 token.
type TokenInfo struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// Format renders amount in whole units with the token symbol.
func (t TokenInfo) Format(amount *big.Int) string {
	return FormatUnits(amount, t.Decimals) + " " + t.Symbol
}

// TokenInfo loads a token's symbol and decimals.
func (c *Client) TokenInfo(ctx context.Context, token common.Address) (TokenInfo, error) {
	sym, err := callOne(ctx, c, token, "symbol()", abi.AsString)
	if err != nil {
		return TokenInfo{}, err
	}
	dec, err := c.Decimals(ctx, token)
	if err != nil {
		return TokenInfo{}, err
	}
	return TokenInfo{Address: token, Symbol: sym, Decimals: dec}, nil
}

// Decimals returns token's decimals.
func (c *Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	n, err := callOne(ctx, c, token, "decimals()", abi.AsUint)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > 255 {
		return 0, fmt.Errorf("decimals %s out of range", n)
	}
	return uint8(n.Uint64()), nil
}

// BalanceOf returns owner's balance of token.
func (c *Client) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	return callOne(ctx, c, token, "balanceOf(address)", abi.AsUint, owner)
}

// Allowance returns what spender may pull from owner.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return callOne(ctx, c, token, "allowance(address,address)", abi.AsUint, owner, spender)
}

// Approve lets spender pull amount of token from the connected account.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	return c.send(ctx, token, "approve(address,uint256)", spender, amount)
}

// LightSourceBalance is the LUX left in the faucet.
func (c *Client) LightSourceBalance(ctx context.Context) (*big.Int, error) {
	return c.BalanceOf(ctx, c.addrs.Lux, c.addrs.LightSource)
}

// RewardEligibility returns the reward account may claim.
func (c *Client) RewardEligibility(ctx context.Context, account common.Address) (*big.Int, error) {
	return callOne(ctx, c, c.addrs.LightSource, "rewardEligibility(address)", abi.AsUint, account)
}

// SwapCount returns the light source's swap counter.
func (c *Client) SwapCount(ctx context.Context) (*big.Int, error) {
	return callOne(ctx, c, c.addrs.LightSource, "swapCount()", abi.AsUint)
}

// SwapThreshold returns the swap count at which rewards can be minted.
func (c *Client) SwapThreshold(ctx context.Context) (*big.Int, error) {
	return callOne(ctx, c, c.addrs.LightSource, "swapThreshold()", abi.AsUint)
}

// Subscription is one of the connected account's chapters with what is left
// of its approval.
type Subscription struct {
	Chapter   common.Address
	Name      string
	Fee       *big.Int
	Token     TokenInfo
	Allowance *big.Int
}

// CyclesLeft is allowance / fee, or zero for a free chapter.
func (s Subscription) CyclesLeft() *big.Int {
	if s.Fee == nil || s.Fee.Sign() == 0 || s.Allowance == nil {
		return new(big.Int)
	}
	return new(big.Int).Quo(s.Allowance, s.Fee)
}

// Subscriptions lists the connected account's chapters.
func (c *Client) Subscriptions(ctx context.Context) ([]Subscription, error) {
	me, err := c.account()
	if err != nil {
		return nil, err
	}
	chapters, err := c.HearerChapters(ctx, me)
	if err != nil {
		return nil, err
	}
	subs := make([]Subscription, 0, len(chapters))
	for _, ch := range chapters {
		s := Subscription{Chapter: ch}
		if s.Name, err = c.Name(ctx, ch); err != nil {
			return nil, err
		}
		if s.Fee, err = c.Fee(ctx, ch); err != nil {
			return nil, err
		}
		tok, err := c.Token(ctx, ch)
		if err != nil {
			return nil, err
		}
		if s.Token, err = c.TokenInfo(ctx, tok); err != nil {
			return nil, err
		}
		if s.Allowance, err = c.Allowance(ctx, tok, me, ch); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}
