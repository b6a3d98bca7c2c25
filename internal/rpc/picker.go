// Package rpc chooses an upstream node for a chain from its advertised URLs.
package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no endpoint can be used.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm selects among probed endpoints.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"
)

// Nodes this many blocks behind the best one are skipped.
const staleBlocks = 3

// ParseAlgorithm validates a configured algorithm name; "" means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	}
	return "", fmt.Errorf("unknown rpc algorithm %q (want fastest, round-robin or failover)", s)
}

// Endpoint is one node and what probing it found.
type Endpoint struct {
	URL     string
	Latency time.Duration
	Block   uint64
	Err     error // nil when the probe succeeded
}

// Healthy reports whether the probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker chooses an endpoint. Round-robin state lives in the picker, so reuse
// one picker per chain.
type Picker struct {
	algo Algorithm
	mu   sync.Mutex
	next int
}

// NewPicker returns a picker using algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Pick applies the algorithm to probed endpoints, given in configured order.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	usable := fresh(endpoints)
	if len(usable) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}
	switch p.algo {
	case AlgorithmFailover:
		return usable[0], nil
	case AlgorithmRoundRobin:
		p.mu.Lock()
		defer p.mu.Unlock()
		e := usable[p.next%len(usable)]
		p.next = (p.next + 1) % len(usable)
		return e, nil
	}
	best := usable[0]
	for _, e := range usable[1:] {
		if e.Latency < best.Latency {
			best = e
		}
	}
	return best, nil
}

// fresh drops failed endpoints and ones lagging the best block, keeping order.
func fresh(endpoints []Endpoint) []Endpoint {
	var top uint64
	for _, e := range endpoints {
		if e.Healthy() && e.Block > top {
			top = e.Block
		}
	}
	var out []Endpoint
	for _, e := range endpoints {
		if !e.Healthy() || top-e.Block > staleBlocks {
			continue
		}
		out = append(out, e)
	}
	return out
}
