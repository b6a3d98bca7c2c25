package chapter

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// SearchResult is one chapter matched by name.
type SearchResult struct {
	Address common.Address
	Name    string
}

// NextFee is the chapter's billing clock, in seconds.
type NextFee struct {
	Remaining  *big.Int
	Interval   *big.Int
	LastBilled *big.Int
}

// Due reports whether the next bill can be collected now.
func (n NextFee) Due() bool { return n.Remaining == nil || n.Remaining.Sign() == 0 }

// Lumen is one post.
type Lumen struct {
	Index     uint64
	DataEntry string
	Cycle     *big.Int
	Timestamp *big.Int
	CellIndex *big.Int
}

// Encrypted reports whether the lumen is sealed with a cycle key.
func (l Lumen) Encrypted() bool { return l.Cycle != nil && l.Cycle.Sign() > 0 }

// Time returns the post time.
func (l Lumen) Time() time.Time {
	if l.Timestamp == nil || !l.Timestamp.IsInt64() {
		return time.Time{}
	}
	return time.Unix(l.Timestamp.Int64(), 0)
}

// Hearer is a chapter's record of one subscriber.
type Hearer struct {
	Address common.Address
	OwnKey  string
	Cycle   *big.Int
	Active  bool
}

// Search queries the mapper for chapters whose name contains query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	out, err := c.call(ctx, c.addrs.Mapper, "queryPartialName(string)", query)
	if err != nil {
		return nil, err
	}
	addrs, err := abi.AsAddresses(out[0])
	if err != nil {
		return nil, err
	}
	names, err := abi.AsStrings(out[1])
	if err != nil {
		return nil, err
	}
	if len(addrs) != len(names) {
		return nil, fmt.Errorf("%w: %d addresses, %d names", ErrMismatchedResult, len(addrs), len(names))
	}
	res := make([]SearchResult, len(addrs))
	for i := range addrs {
		res[i] = SearchResult{Address: addrs[i], Name: names[i]}
	}
	return res, nil
}

// HearerChapters lists the chapters hearer is subscribed to.
func (c *Client) HearerChapters(ctx context.Context, hearer common.Address) ([]common.Address, error) {
	return callOne(ctx, c, c.addrs.Mapper, "getHearerChapters(address)", abi.AsAddresses, hearer)
}

// IsSubscribed reports whether hearer is subscribed to chapter.
func (c *Client) IsSubscribed(ctx context.Context, hearer, chapter common.Address) (bool, error) {
	return callOne(ctx, c, c.addrs.Mapper, "isHearerSubscribed(address,address)", abi.AsBool, hearer, chapter)
}

// Name returns the chapter name.
func (c *Client) Name(ctx context.Context, chapter common.Address) (string, error) {
	return callOne(ctx, c, chapter, "chapterName()", abi.AsString)
}

// Image returns the chapter image URL.
func (c *Client) Image(ctx context.Context, chapter common.Address) (string, error) {
	return callOne(ctx, c, chapter, "chapterImage()", abi.AsString)
}

// Elect returns the chapter owner.
func (c *Client) Elect(ctx context.Context, chapter common.Address) (common.Address, error) {
	return callOne(ctx, c, chapter, "elect()", abi.AsAddress)
}

// Token returns the token the chapter bills in.
func (c *Client) Token(ctx context.Context, chapter common.Address) (common.Address, error) {
	return callOne(ctx, c, chapter, "chapterToken()", abi.AsAddress)
}

// Fee returns the per-cycle fee in token base units.
func (c *Client) Fee(ctx context.Context, chapter common.Address) (*big.Int, error) {
	return callOne(ctx, c, chapter, "chapterFee()", abi.AsUint)
}

// NextFee returns the chapter's billing clock.
func (c *Client) NextFee(ctx context.Context, chapter common.Address) (NextFee, error) {
	out, err := c.call(ctx, chapter, "nextFeeInSeconds()")
	if err != nil {
		return NextFee{}, err
	}
	var n NextFee
	for i, dst := range []**big.Int{&n.Remaining, &n.Interval, &n.LastBilled} {
		if *dst, err = abi.AsUint(out[i]); err != nil {
			return NextFee{}, fmt.Errorf("nextFeeInSeconds output %d: %w", i, err)
		}
	}
	return n, nil
}

// ActiveHearers returns the number of active subscribers.
func (c *Client) ActiveHearers(ctx context.Context, chapter common.Address) (*big.Int, error) {
	return callOne(ctx, c, chapter, "getActiveHearersCount()", abi.AsUint)
}

// Cycle returns the current billing cycle.
func (c *Client) Cycle(ctx context.Context, chapter common.Address) (*big.Int, error) {
	return callOne(ctx, c, chapter, "chapterCycle()", abi.AsUint)
}

// PendingCycle returns the cycle awaiting its bill.
func (c *Client) PendingCycle(ctx context.Context, chapter common.Address) (*big.Int, error) {
	return callOne(ctx, c, chapter, "pendingCycle()", abi.AsUint)
}

// CellHeight returns the number of hearer cells.
func (c *Client) CellHeight(ctx context.Context, chapter common.Address) (*big.Int, error) {
	return callOne(ctx, c, chapter, "getCellHeight()", abi.AsUint)
}

// CellHearers lists the hearers in one billing cell.
func (c *Client) CellHearers(ctx context.Context, chapter common.Address, cell uint64) ([]common.Address, error) {
	return callOne(ctx, c, chapter, "getCellHearers(uint256)", abi.AsAddresses, cell)
}

// Laggards lists hearers who joined after the current cycle was keyed.
func (c *Client) Laggards(ctx context.Context, chapter common.Address) ([]common.Address, error) {
	return callOne(ctx, c, chapter, "getLaggards()", abi.AsAddresses)
}

// HistoricalKey returns hearer's sealed key for cycle, "0" if none.
func (c *Client) HistoricalKey(ctx context.Context, chapter, hearer common.Address, cycle uint64) (string, error) {
	return callOne(ctx, c, chapter, "historicalKeys(address,uint256)", abi.AsString, hearer, cycle)
}

// CycleKey returns the elect's sealed key for cycle.
func (c *Client) CycleKey(ctx context.Context, chapter common.Address, cycle uint64) (string, error) {
	return callOne(ctx, c, chapter, "cycleKey(uint256)", abi.AsString, cycle)
}

// CycleKeys returns the sealed keys of cycles 1..current, in order.
func (c *Client) CycleKeys(ctx context.Context, chapter common.Address) ([]string, error) {
	cur, err := c.Cycle(ctx, chapter)
	if err != nil {
		return nil, err
	}
	if !cur.IsUint64() {
		return nil, fmt.Errorf("cycle %s out of range", cur)
	}
	keys := make([]string, 0, cur.Uint64())
	for i := uint64(1); i <= cur.Uint64(); i++ {
		k, err := c.CycleKey(ctx, chapter, i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Hearer returns the chapter's record for hearer.
func (c *Client) Hearer(ctx context.Context, chapter, hearer common.Address) (Hearer, error) {
	out, err := c.call(ctx, chapter, "isHearer(address)", hearer)
	if err != nil {
		return Hearer{}, err
	}
	var h Hearer
	if h.Address, err = abi.AsAddress(out[0]); err != nil {
		return Hearer{}, err
	}
	if h.OwnKey, err = abi.AsString(out[1]); err != nil {
		return Hearer{}, err
	}
	if h.Cycle, err = abi.AsUint(out[2]); err != nil {
		return Hearer{}, err
	}
	if h.Active, err = abi.AsBool(out[3]); err != nil {
		return Hearer{}, err
	}
	return h, nil
}

// LumenHeight returns the number of lumens posted.
func (c *Client) LumenHeight(ctx context.Context, chapter common.Address) (uint64, error) {
	n, err := callOne(ctx, c, chapter, "lumenHeight()", abi.AsUint)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("lumen height %s out of range", n)
	}
	return n.Uint64(), nil
}

// Lumen returns the lumen at index.
func (c *Client) Lumen(ctx context.Context, chapter common.Address, index uint64) (Lumen, error) {
	out, err := c.call(ctx, chapter, "getLumen(uint256)", index)
	if err != nil {
		return Lumen{}, err
	}
	l := Lumen{Index: index}
	if l.DataEntry, err = abi.AsString(out[0]); err != nil {
		return Lumen{}, err
	}
	for i, dst := range []**big.Int{&l.Cycle, &l.Timestamp, &l.CellIndex} {
		if *dst, err = abi.AsUint(out[i+1]); err != nil {
			return Lumen{}, fmt.Errorf("getLumen output %d: %w", i+1, err)
		}
	}
	return l, nil
}

// Latest returns up to n of the newest lumens, newest first.
func (c *Client) Latest(ctx context.Context, chapter common.Address, n uint64) ([]Lumen, error) {
	height, err := c.LumenHeight(ctx, chapter)
	if err != nil {
		return nil, err
	}
	var from uint64
	if height > n {
		from = height - n
	}
	out := make([]Lumen, 0, height-from)
	for i := height; i > from; i-- {
		l, err := c.Lumen(ctx, chapter, i-1)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Info is the summary shown for one chapter.
type Info struct {
	Address  common.Address
	Name     string
	Image    string
	Elect    common.Address
	Token    TokenInfo
	Fee      *big.Int
	Next     NextFee
	Hearers  *big.Int
	Cycle    *big.Int
	Laggards int

	// Viewer fields are set only when an account is connected.
	IsElect      bool
	IsSubscribed bool
}

// CycleProfit is hearers × fee.
func (i *Info) CycleProfit() *big.Int {
	if i.Fee == nil || i.Hearers == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(i.Fee, i.Hearers)
}

// PendingFees is the collectable amount: the cycle profit once the bill is
// due, zero before.
func (i *Info) PendingFees() *big.Int {
	if !i.Next.Due() {
		return new(big.Int)
	}
	return i.CycleProfit()
}

// Info loads a chapter summary. Independent reads run concurrently.
func (c *Client) Info(ctx context.Context, chapter common.Address) (*Info, error) {
	info := &Info{Address: chapter}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { info.Name, err = c.Name(gctx, chapter); return })
	g.Go(func() (err error) { info.Image, err = c.Image(gctx, chapter); return })
	g.Go(func() (err error) { info.Elect, err = c.Elect(gctx, chapter); return })
	g.Go(func() (err error) { info.Fee, err = c.Fee(gctx, chapter); return })
	g.Go(func() (err error) { info.Next, err = c.NextFee(gctx, chapter); return })
	g.Go(func() (err error) { info.Hearers, err = c.ActiveHearers(gctx, chapter); return })
	g.Go(func() (err error) { info.Cycle, err = c.Cycle(gctx, chapter); return })
	g.Go(func() error {
		lag, err := c.Laggards(gctx, chapter)
		info.Laggards = len(lag)
		return err
	})
	g.Go(func() error {
		tok, err := c.Token(gctx, chapter)
		if err != nil {
			return err
		}
		info.Token, err = c.TokenInfo(gctx, tok)
		return err
	})
	if me, ok := c.d.Account(); ok {
		g.Go(func() (err error) { info.IsSubscribed, err = c.IsSubscribed(gctx, me, chapter); return })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if me, ok := c.d.Account(); ok {
		info.IsElect = me == info.Elect
	}
	return info, nil
}
