package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// ProbeTimeout bounds a single probe.
const ProbeTimeout = 5 * time.Second

// Probe dials url, reads its block height and, when chainID is non-zero,
// checks that the node serves that chain.
func Probe(ctx context.Context, url string, chainID uint64) Endpoint {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	e := Endpoint{URL: url}
	start := time.Now()
	client, err := provider.DialRPC(ctx, url)
	if err != nil {
		e.Err = err
		return e
	}
	defer client.Close()

	block, err := provider.Call[hexutil.Uint64](ctx, client, "eth_blockNumber")
	e.Latency = time.Since(start)
	if err != nil {
		e.Err = err
		return e
	}
	e.Block = uint64(block)

	if chainID != 0 {
		got, err := provider.Call[hexutil.Uint64](ctx, client, provider.MethodChainID)
		if err != nil {
			e.Err = err
		} else if uint64(got) != chainID {
			e.Err = fmt.Errorf("%s serves chain %d, want %d", url, uint64(got), chainID)
		}
	}
	return e
}

// Benchmark probes every url concurrently. Results keep the order of urls.
func Benchmark(ctx context.Context, urls []string, chainID uint64) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		i, u := i, u
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = Probe(ctx, u, chainID)
		}()
	}
	wg.Wait()
	return out
}

// Select returns the URL to use for a chain. A single URL is returned without
// probing.
func Select(ctx context.Context, urls []string, chainID uint64, p *Picker) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}
	results := Benchmark(ctx, urls, chainID)
	for _, r := range results {
		if r.Err != nil {
			log.Debug("RPC probe failed", "url", r.URL, "err", r.Err)
		}
	}
	e, err := p.Pick(results)
	if err != nil {
		return "", err
	}
	log.Debug("Selected RPC", "url", e.URL, "latency", e.Latency, "block", e.Block)
	return e.URL, nil
}
