// check-lux: queries native S and LUX balances for a set of wallets on Sonic
// Blaze Testnet in parallel and prints a summary table.
//
// Run from the module root:
//
//	go run ./scripts/check-lux [address...]
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/Mohsinsiddi/lumen/internal/contract"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/Mohsinsiddi/lumen/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ── config ────────────────────────────────────────────────────────────────────

var wallets = []string{
	"0x802D8097eC1D49808F3c2c866020442891adde57",
	"0x315a352720E52EaDCB62f5e0879D5Fea82B959A4",
	"0x5d1D0b1d5790B1c88cC1e94366D3B242991DC05d",
}

const rpcTimeout = 12 * time.Second

// ── types ─────────────────────────────────────────────────────────────────────

type result struct {
	wallet string // short form
	native string
	lux    string
	err    string
}

// ── main ──────────────────────────────────────────────────────────────────────

func main() {
	if len(os.Args) > 1 {
		wallets = os.Args[1:]
	}

	chain := network.SonicBlazeTestnet()
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	url, err := rpc.Select(ctx, chain.RPCURLs, chain.ID(), rpc.NewPicker(rpc.AlgorithmFastest))
	if err != nil {
		fail(err)
	}
	node, err := provider.DialRPC(ctx, url)
	if err != nil {
		fail(err)
	}
	defer node.Close()

	reg, err := method.Default()
	if err != nil {
		fail(err)
	}
	lux := common.HexToAddress(config.LuxAddress)
	client := chapter.NewClient(contract.NewDispatcher(node), reg, chapter.Addresses{Lux: lux})
	tok, err := client.TokenInfo(ctx, lux)
	if err != nil {
		fail(err)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)
	for _, w := range wallets {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := result{wallet: shortAddr(w), native: "—", lux: "—"}
			defer func() {
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}()

			addr, err := chapter.ParseAddress(w)
			if err != nil {
				r.err = "invalid address"
				return
			}
			bal, err := provider.Call[hexutil.Big](ctx, node, "eth_getBalance", addr, provider.BlockLatest)
			if err != nil {
				r.err = shortErr(err)
				return
			}
			r.native = chapter.FormatUnits(bal.ToInt(), chain.NativeCurrency.Decimals)
			lb, err := client.BalanceOf(ctx, lux, addr)
			if err != nil {
				r.err = shortErr(err)
				return
			}
			r.lux = chapter.FormatUnits(lb, tok.Decimals)
		}()
	}
	wg.Wait()

	fmt.Printf("%s via %s\n\n", chain.ChainName, url)
	printTable(results, chain.NativeCurrency.Symbol, tok.Symbol)
}

// ── output ────────────────────────────────────────────────────────────────────

func printTable(results []result, native, token string) {
	sort.Slice(results, func(i, j int) bool { return results[i].wallet < results[j].wallet })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WALLET\t%s\t%s\tNOTE\n", native, token)
	fmt.Fprintln(w, strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 20)+"\t"+
		strings.Repeat("-", 20)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.wallet, r.native, r.lux, r.err)
	}
	w.Flush()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func fail(err error) {
	fmt.Fprintln(os.Stderr, "check-lux:", err)
	os.Exit(1)
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
