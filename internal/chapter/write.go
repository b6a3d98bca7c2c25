package chapter

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Hear subscribes the connected account. The chapter pulls its fee through an
// existing token approval; see Subscribe.
func (c *Client) Hear(ctx context.Context, chapter common.Address) (common.Hash, error) {
	return c.send(ctx, chapter, "hear()")
}

// Silence unsubscribes the connected account.
func (c *Client) Silence(ctx context.Context, chapter common.Address) (common.Hash, error) {
	return c.send(ctx, chapter, "silence()")
}

// Luminate posts a lumen.
func (c *Client) Luminate(ctx context.Context, chapter common.Address, dataEntry string) (common.Hash, error) {
	return c.send(ctx, chapter, "luminate(string)", dataEntry)
}

// SetName renames the chapter.
func (c *Client) SetName(ctx context.Context, chapter common.Address, name string) (common.Hash, error) {
	if err := ValidateName(name); err != nil {
		return common.Hash{}, err
	}
	return c.send(ctx, chapter, "addChapterName(string)", name)
}

// SetImage sets the chapter image URL.
func (c *Client) SetImage(ctx context.Context, chapter common.Address, image string) (common.Hash, error) {
	return c.send(ctx, chapter, "addChapterImage(string)", image)
}

// NextCycleBill bills one cell of hearers and publishes the next cycle key.
// ownKeys holds one sealed key per hearer in the cell, in cell order.
func (c *Client) NextCycleBill(ctx context.Context, chapter common.Address, key string, cell uint64, ownKeys []string) (common.Hash, error) {
	return c.send(ctx, chapter, "nextCycleBill(string,uint256,string)", key, cell, strings.Join(ownKeys, ","))
}

// BillAndSet bills a laggard for the given cycles and stores their sealed
// keys.
func (c *Client) BillAndSet(ctx context.Context, chapter, hearer common.Address, cycles []uint64, ownKeys []string) (common.Hash, error) {
	if len(cycles) != len(ownKeys) {
		return common.Hash{}, fmt.Errorf("%w: %d cycles, %d keys", ErrMismatchedResult, len(cycles), len(ownKeys))
	}
	idx := make([]string, len(cycles))
	for i, n := range cycles {
		idx[i] = strconv.FormatUint(n, 10)
	}
	return c.send(ctx, chapter, "billAndSet(address,string,string)", hearer, strings.Join(idx, ","), strings.Join(ownKeys, ","))
}

// ReElect hands the chapter to a new elect.
func (c *Client) ReElect(ctx context.Context, chapter, newElect common.Address) (common.Hash, error) {
	if newElect == (common.Address{}) {
		return common.Hash{}, fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	return c.send(ctx, chapter, "reElect(address)", newElect)
}

// ClaimLux takes LUX from the light source faucet.
func (c *Client) ClaimLux(ctx context.Context) (common.Hash, error) {
	return c.send(ctx, c.addrs.LightSource, "claim(address)", c.addrs.Lux)
}

// ClaimReward claims the connected account's swap reward.
func (c *Client) ClaimReward(ctx context.Context) (common.Hash, error) {
	return c.send(ctx, c.addrs.LightSource, "claimReward()")
}

// MintRewards mints the reward pool once the swap threshold is reached.
func (c *Client) MintRewards(ctx context.Context) (common.Hash, error) {
	return c.send(ctx, c.addrs.LightSource, "mintRewards()")
}

// Deploy creates a chapter owned by elect that bills fee of token every
// interval seconds.
func (c *Client) Deploy(ctx context.Context, elect common.Address, interval uint64, fee *big.Int, token common.Address) (common.Hash, error) {
	if interval == 0 {
		return common.Hash{}, ErrInvalidInterval
	}
	return c.send(ctx, c.addrs.Factory, "deployChapter(address,uint256,uint256,address)", elect, interval, fee, token)
}

// SubscribeResult reports both transactions of a subscription.
type SubscribeResult struct {
	Amount  *big.Int
	Token   common.Address
	Approve common.Hash
	Hear    common.Hash
}

// Subscribe approves fee × cycles of the chapter token and then hears. The
// balance is checked first; nothing is sent if it is short. The approval is
// sent before hear and hear waits for it to be accepted by the wallet.
func (c *Client) Subscribe(ctx context.Context, chapter common.Address, cycles uint64) (*SubscribeResult, error) {
	me, err := c.account()
	if err != nil {
		return nil, err
	}
	if cycles == 0 {
		return nil, ErrInvalidCycles
	}
	amount, token, err := c.cost(ctx, chapter, cycles)
	if err != nil {
		return nil, err
	}
	bal, err := c.BalanceOf(ctx, token, me)
	if err != nil {
		return nil, err
	}
	if bal.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s of %s", ErrInsufficientBalance, bal, amount, c.tokenLabel(token))
	}

	res := &SubscribeResult{Amount: amount, Token: token}
	if res.Approve, err = c.Approve(ctx, token, chapter, amount); err != nil {
		return nil, fmt.Errorf("approving: %w", err)
	}
	if res.Hear, err = c.Hear(ctx, chapter); err != nil {
		return res, fmt.Errorf("hearing: %w", err)
	}
	return res, nil
}

// SetCycles re-approves the chapter for exactly cycles more bills. It serves
// both extending and cutting a subscription.
func (c *Client) SetCycles(ctx context.Context, chapter common.Address, cycles uint64) (common.Hash, error) {
	if cycles == 0 {
		return common.Hash{}, ErrInvalidCycles
	}
	amount, token, err := c.cost(ctx, chapter, cycles)
	if err != nil {
		return common.Hash{}, err
	}
	return c.Approve(ctx, token, chapter, amount)
}

func (c *Client) cost(ctx context.Context, chapter common.Address, cycles uint64) (*big.Int, common.Address, error) {
	fee, err := c.Fee(ctx, chapter)
	if err != nil {
		return nil, common.Address{}, err
	}
	token, err := c.Token(ctx, chapter)
	if err != nil {
		return nil, common.Address{}, err
	}
	return new(big.Int).Mul(fee, new(big.Int).SetUint64(cycles)), token, nil
}

func (c *Client) tokenLabel(token common.Address) string {
	if token == c.addrs.Lux {
		return "LUX"
	}
	return token.Hex()
}

// BillLaggards bills every laggard for all cycles so far. seal turns a cycle
// key into the sealed copy for one hearer; key handling stays with the caller.
func (c *Client) BillLaggards(ctx context.Context, chapter common.Address, seal func(cycleKey string, hearer common.Address) (string, error)) ([]common.Hash, error) {
	laggards, err := c.Laggards(ctx, chapter)
	if err != nil {
		return nil, err
	}
	if len(laggards) == 0 {
		return nil, nil
	}
	keys, err := c.CycleKeys(ctx, chapter)
	if err != nil {
		return nil, err
	}
	hashes := make([]common.Hash, 0, len(laggards))
	for _, h := range laggards {
		cycles := make([]uint64, len(keys))
		own := make([]string, len(keys))
		for i, k := range keys {
			cycles[i] = uint64(i)
			if own[i], err = seal(k, h); err != nil {
				return hashes, fmt.Errorf("sealing cycle %d for %s: %w", i, h.Hex(), err)
			}
		}
		tx, err := c.BillAndSet(ctx, chapter, h, cycles, own)
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, tx)
	}
	return hashes, nil
}
