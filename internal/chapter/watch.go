package chapter

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// FeeChange is reported when a subscribed chapter's fee moves.
type FeeChange struct {
	Chapter common.Address
	Old     *big.Int
	New     *big.Int
}

// FeeWatcher remembers the last fee seen per chapter.
type FeeWatcher struct {
	c    *Client
	seen map[common.Address]*big.Int
}

// NewFeeWatcher returns a watcher with an empty fee cache.
func (c *Client) NewFeeWatcher() *FeeWatcher {
	return &FeeWatcher{c: c, seen: make(map[common.Address]*big.Int)}
}

// Poll reads the fee of every chapter the connected account hears and returns
// the ones that changed since the previous poll. The first sighting of a
// chapter only records its fee.
func (w *FeeWatcher) Poll(ctx context.Context) ([]FeeChange, error) {
	me, err := w.c.account()
	if err != nil {
		return nil, err
	}
	chapters, err := w.c.HearerChapters(ctx, me)
	if err != nil {
		return nil, err
	}
	var changes []FeeChange
	for _, ch := range chapters {
		fee, err := w.c.Fee(ctx, ch)
		if err != nil {
			return changes, err
		}
		if old, ok := w.seen[ch]; ok && old.Cmp(fee) != 0 {
			changes = append(changes, FeeChange{Chapter: ch, Old: old, New: fee})
		}
		w.seen[ch] = fee
	}
	return changes, nil
}

// Run polls every interval until ctx is done. Poll errors go to onErr and do
// not stop the loop.
func (w *FeeWatcher) Run(ctx context.Context, interval time.Duration, onChange func(FeeChange), onErr func(error)) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		changes, err := w.Poll(ctx)
		if err != nil && onErr != nil {
			onErr(err)
		}
		for _, ch := range changes {
			onChange(ch)
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}
