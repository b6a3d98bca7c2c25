package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/chapter"
	"github.com/Mohsinsiddi/lumen/internal/config"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/network"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/Mohsinsiddi/lumen/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry(t *testing.T) *method.Registry {
	t.Helper()
	reg, err := method.Default()
	require.NoError(t, err)
	return reg
}

// ---------------------------------------------------------------------------
// normalizeSignature
// ---------------------------------------------------------------------------

func TestNormalizeSignature(t *testing.T) {
	tests := []struct{ in, want string }{
		{"transfer(address,uint256)", "transfer(address,uint256)"},
		{"transfer(address to, uint256 amount)", "transfer(address,uint256)"},
		{"name()", "name()"},
		{"balanceOf(address account)", "balanceOf(address)"},
		{"approve(  address  spender ,  uint256  amount  )", "approve(address,uint256)"},
		{"  luminate ", "luminate"},
		{"broken(address", "broken(address"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeSignature(tt.in), tt.in)
	}
}

// ---------------------------------------------------------------------------
// resolveMethod
// ---------------------------------------------------------------------------

func TestResolveMethodRegistered(t *testing.T) {
	reg := defaultRegistry(t)

	m, err := resolveMethod(reg, "queryPartialName", "", method.View)
	require.NoError(t, err)
	assert.Equal(t, "queryPartialName(string)", m.Signature)
	assert.Len(t, m.Outputs, 2)

	m, err = resolveMethod(reg, "approve(address spender, uint amount)", "", method.NonPayable)
	require.NoError(t, err)
	assert.Equal(t, "approve(address,uint256)", m.Signature)
	assert.Equal(t, "0x095ea7b3", m.Selector.Hex())
}

func TestResolveMethodAdHoc(t *testing.T) {
	m, err := resolveMethod(defaultRegistry(t), "owner()", "address", method.View)
	require.NoError(t, err)
	assert.Equal(t, "owner()", m.Signature)
	assert.Equal(t, "0x8da5cb5b", m.Selector.Hex())
	require.Len(t, m.Outputs, 1)
	assert.Equal(t, abi.Address, m.Outputs[0].Type)
	assert.True(t, m.IsView())

	m, err = resolveMethod(defaultRegistry(t), "setFee(uint256 fee)", "", method.NonPayable)
	require.NoError(t, err)
	assert.Equal(t, "setFee(uint256)", m.Signature)
	assert.Empty(t, m.Outputs)
	assert.False(t, m.IsView())
}

func TestResolveMethodErrors(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := resolveMethod(reg, "frobnicate", "", method.View)
	assert.ErrorIs(t, err, method.ErrUnknownMethod)

	_, err = resolveMethod(reg, "f(uint7)", "", method.View)
	assert.ErrorIs(t, err, method.ErrMalformedSignature)

	_, err = resolveMethod(reg, "owner()", "addr", method.View)
	assert.ErrorContains(t, err, "--returns")
}

// ---------------------------------------------------------------------------
// parseArgs / resultPairs
// ---------------------------------------------------------------------------

func TestParseArgs(t *testing.T) {
	m, err := defaultRegistry(t).Resolve("approve")
	require.NoError(t, err)

	vals, err := parseArgs(m, []string{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045", "0x10"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), vals[0])
	assert.Equal(t, "16", vals[1].(*big.Int).String())

	_, err = parseArgs(m, []string{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"})
	assert.ErrorContains(t, err, "takes 2 argument(s), got 1")

	_, err = parseArgs(m, []string{"0x1234", "1"})
	assert.ErrorIs(t, err, abi.ErrInvalidAddress)
	assert.ErrorContains(t, err, "argument 1 (spender)")
}

func TestParseArgsArray(t *testing.T) {
	m, err := resolveMethod(defaultRegistry(t), "f(string[])", "", method.NonPayable)
	require.NoError(t, err)
	vals, err := parseArgs(m, []string{`["a","bc"]`})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "bc"}, vals[0])
}

func TestResultPairs(t *testing.T) {
	reg := defaultRegistry(t)

	m, err := reg.Resolve("queryPartialName")
	require.NoError(t, err)
	pairs := resultPairs(m, []any{[]any{common.HexToAddress("0x01")}, []any{"lumen"}})
	assert.Equal(t, "addresses", pairs[0][0])
	assert.Equal(t, "names", pairs[1][0])
	assert.Equal(t, "[lumen]", pairs[1][1])

	m, err = reg.Resolve("chapterFee")
	require.NoError(t, err)
	pairs = resultPairs(m, []any{big.NewInt(7)})
	assert.Equal(t, [][2]string{{"Result", "7"}}, pairs)
}

// ---------------------------------------------------------------------------
// parseSelector / resolveTarget
// ---------------------------------------------------------------------------

func TestParseSelector(t *testing.T) {
	sel, err := parseSelector("0xA9059CBB")
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", sel.Hex())

	for _, bad := range []string{"0x", "0xa9059c", "0xa9059cbb00", "0xzzzzzzzz"} {
		_, err := parseSelector(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveTarget(t *testing.T) {
	var err error
	cfg, err = config.Load(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cfg = nil })

	a, err := resolveTarget("lux")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(config.LuxAddress), a)

	a, err = resolveTarget("0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678"), a)

	_, err = resolveTarget("oracle")
	assert.ErrorContains(t, err, "chapter-mapper")
}

// ---------------------------------------------------------------------------
// formatting
// ---------------------------------------------------------------------------

func TestSeconds(t *testing.T) {
	assert.Equal(t, "0s", seconds(0))
	assert.Equal(t, "1 week", seconds(chapter.Week))
	assert.Equal(t, "2 weeks", seconds(2*chapter.Week))
	assert.Equal(t, "1 month", seconds(chapter.Month))
	assert.Equal(t, "1h30m0s", seconds(5400))
}

func TestPositiveSeconds(t *testing.T) {
	n, err := positiveSeconds("30")
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	for _, bad := range []string{"0", "-1", "ten", ""} {
		_, err := positiveSeconds(bad)
		assert.Error(t, err, bad)
	}
}

func TestChainIDLabel(t *testing.T) {
	assert.Equal(t, "53766 (0xd206)", chainIDLabel(0xd206))
}

func TestInfoPairs(t *testing.T) {
	info := &chapter.Info{
		Address: common.HexToAddress("0xc0c0000000000000000000000000000000000001"),
		Name:    "lumen daily",
		Token:   chapter.TokenInfo{Symbol: "LUX", Decimals: 18},
		Fee:     big.NewInt(2e18),
		Next:    chapter.NextFee{Remaining: big.NewInt(0), Interval: big.NewInt(chapter.Month), LastBilled: big.NewInt(1)},
		Hearers: big.NewInt(3),
		Cycle:   big.NewInt(4),
		IsElect: true,
	}
	got := map[string]string{}
	for _, p := range infoPairs(info) {
		got[p[0]] = p[1]
	}
	assert.Equal(t, "due now", got["Next bill"])
	assert.Equal(t, "1 month", got["Interval"])
	assert.Contains(t, got["Pending fees"], "6 LUX")
	assert.Contains(t, got["You"], "elect")
	assert.NotContains(t, got, "Image")
}

// ---------------------------------------------------------------------------
// describe
// ---------------------------------------------------------------------------

func TestDescribeHints(t *testing.T) {
	tests := []struct {
		err  error
		hint string
	}{
		{provider.NewError(provider.CodeUserRejected, "no"), "rejected"},
		{fmt.Errorf("sending: %w", provider.NewError(provider.CodeUnauthorized, "watch-only")), "lumen wallet import"},
		{provider.NewError(provider.CodeChainDisconnected, "down"), "lumen rpc add"},
		{provider.NewError(provider.CodeUnsupportedMethod, "eth_decrypt"), "does not support"},
		{fmt.Errorf("%w: w1", wallet.ErrWalletNotFound), "lumen wallet list"},
		{&network.SwitchError{Step: "switch", Err: errors.New("boom")}, "lumen network status"},
	}
	for _, tt := range tests {
		out := describe(tt.err)
		assert.Contains(t, out, tt.err.Error())
		assert.Contains(t, out, tt.hint)
	}
	assert.NotContains(t, describe(errors.New("plain")), "\n")
}
