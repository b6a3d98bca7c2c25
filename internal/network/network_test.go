package network

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// scriptedWallet returns queued errors per method, then succeeds.
type scriptedWallet struct {
	mu      sync.Mutex
	chainID uint64
	errs    map[string][]error
	calls   map[string]int
	added   []ChainDescriptor
}

func newScriptedWallet(chainID uint64) *scriptedWallet {
	return &scriptedWallet{chainID: chainID, errs: map[string][]error{}, calls: map[string]int{}}
}

func (w *scriptedWallet) fail(method string, errs ...error) {
	w.errs[method] = append(w.errs[method], errs...)
}

func (w *scriptedWallet) Request(_ context.Context, method string, params ...any) (json.RawMessage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls[method]++
	if q := w.errs[method]; len(q) > 0 {
		w.errs[method] = q[1:]
		if q[0] != nil {
			return nil, q[0]
		}
	}
	switch method {
	case provider.MethodChainID:
		return json.Marshal(hexutil.Uint64(w.chainID))
	case provider.MethodSwitchChain:
		w.chainID = uint64(params[0].(provider.SwitchChainRequest).ChainID)
		return json.RawMessage(`null`), nil
	case provider.MethodAddChain:
		w.added = append(w.added, params[0].(ChainDescriptor))
		return json.RawMessage(`null`), nil
	}
	return nil, provider.NewError(provider.CodeUnsupportedMethod, "%s", method)
}

func unrecognized() error {
	return provider.NewError(provider.CodeUnrecognizedChain, "Unrecognized chain ID")
}

// ---------------------------------------------------------------------------
// ChainDescriptor
// ---------------------------------------------------------------------------

func TestSonicBlazeDescriptorJSON(t *testing.T) {
	raw, err := json.Marshal(SonicBlazeTestnet())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"chainId": "0xd206",
		"chainName": "Sonic Blaze Testnet",
		"rpcUrls": ["https://rpc.blaze.soniclabs.com"],
		"blockExplorerUrls": ["https://testnet.sonicscan.org"],
		"nativeCurrency": {"name": "Sonic", "symbol": "S", "decimals": 18}
	}`, string(raw))

	var back ChainDescriptor
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, SonicBlazeTestnet(), back)
}

func TestDescriptorValidate(t *testing.T) {
	assert.NoError(t, SonicBlazeTestnet().Validate())

	c := SonicBlazeTestnet()
	c.ChainID = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidChain)

	c = SonicBlazeTestnet()
	c.RPCURLs = []string{"ftp://rpc.example"}
	assert.ErrorIs(t, c.Validate(), ErrInvalidChain)

	c = SonicBlazeTestnet()
	c.RPCURLs = nil
	assert.ErrorIs(t, c.Validate(), ErrInvalidChain)
}

func TestDescriptorLinks(t *testing.T) {
	c := SonicBlazeTestnet()
	assert.Equal(t, "sonic-blaze-testnet", c.Slug())
	assert.Equal(t, "https://testnet.sonicscan.org/tx/0xabc", c.TxURL("0xabc"))
	assert.Equal(t, "", ChainDescriptor{}.TxURL("0xabc"))
}

func TestRegistryLookup(t *testing.T) {
	r := Builtin()
	for _, key := range []string{"sonic-blaze-testnet", "Sonic Blaze Testnet", "0xd206", "53766"} {
		c, err := r.Get(key)
		require.NoError(t, err, key)
		assert.Equal(t, uint64(0xd206), c.ID())
	}
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrChainNotFound)
	_, err = r.GetByID(1)
	assert.ErrorIs(t, err, ErrChainNotFound)
}

func TestRegistryPutReplaces(t *testing.T) {
	r := Builtin()
	n := len(r.All())
	c := SonicBlazeTestnet()
	c.ChainName = "Blaze"
	r.Put(c)

	assert.Len(t, r.All(), n)
	got, err := r.Get("blaze")
	require.NoError(t, err)
	assert.Equal(t, "Blaze", got.ChainName)
	_, err = r.Get("sonic-blaze-testnet")
	assert.ErrorIs(t, err, ErrChainNotFound)
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

func TestEnsureChainAlreadyMatched(t *testing.T) {
	w := newScriptedWallet(0xd206)
	state, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Matched, state)
	assert.Zero(t, w.calls[provider.MethodSwitchChain])
	assert.Zero(t, w.calls[provider.MethodAddChain])
}

func TestEnsureChainSwitches(t *testing.T) {
	w := newScriptedWallet(1)
	state, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Matched, state)
	assert.Equal(t, 1, w.calls[provider.MethodSwitchChain])
	assert.Zero(t, w.calls[provider.MethodAddChain])
	assert.Equal(t, uint64(0xd206), w.chainID)
}

func TestEnsureChainAddsUnrecognizedChain(t *testing.T) {
	w := newScriptedWallet(1)
	w.fail(provider.MethodSwitchChain, unrecognized())

	state, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Matched, state)
	assert.Equal(t, 2, w.calls[provider.MethodSwitchChain])
	assert.Equal(t, 1, w.calls[provider.MethodAddChain])
	require.Len(t, w.added, 1)
	assert.Equal(t, SonicBlazeTestnet(), w.added[0])
}

func TestEnsureChainAddsAtMostOnce(t *testing.T) {
	w := newScriptedWallet(1)
	w.fail(provider.MethodSwitchChain, unrecognized(), unrecognized(), unrecognized())

	state, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	require.Error(t, err)
	assert.Equal(t, Mismatched, state)
	assert.ErrorIs(t, err, ErrNetworkSwitchFailed)
	assert.Equal(t, 2, w.calls[provider.MethodSwitchChain])
	assert.Equal(t, 1, w.calls[provider.MethodAddChain])
}

func TestEnsureChainOtherErrorSurfaced(t *testing.T) {
	w := newScriptedWallet(1)
	w.fail(provider.MethodSwitchChain, provider.NewError(provider.CodeUserRejected, "user rejected"))

	state, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	require.Error(t, err)
	assert.Equal(t, Mismatched, state)
	assert.ErrorIs(t, err, ErrNetworkSwitchFailed)
	assert.True(t, provider.IsCode(err, provider.CodeUserRejected))
	assert.Zero(t, w.calls[provider.MethodAddChain])

	var se *SwitchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, provider.MethodSwitchChain, se.Step)
}

func TestEnsureChainAddFails(t *testing.T) {
	w := newScriptedWallet(1)
	w.fail(provider.MethodSwitchChain, unrecognized())
	w.fail(provider.MethodAddChain, provider.NewError(provider.CodeUserRejected, "user rejected"))

	_, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	var se *SwitchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, provider.MethodAddChain, se.Step)
	assert.Equal(t, 1, w.calls[provider.MethodSwitchChain])
}

func TestEnsureChainChainIDFails(t *testing.T) {
	w := newScriptedWallet(1)
	w.fail(provider.MethodChainID, errors.New("boom"))
	_, err := NewManager(w, SonicBlazeTestnet()).EnsureChain(context.Background())
	assert.ErrorIs(t, err, ErrNetworkSwitchFailed)
	assert.Zero(t, w.calls[provider.MethodSwitchChain])
}

func TestCheck(t *testing.T) {
	w := newScriptedWallet(146)
	state, id, err := NewManager(w, SonicBlazeTestnet()).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Mismatched, state)
	assert.Equal(t, uint64(146), id)
	assert.Equal(t, "mismatched", state.String())
}

func TestFollowChainChanged(t *testing.T) {
	ev := provider.NewEvents()
	m := NewManager(newScriptedWallet(1), SonicBlazeTestnet())

	var got []State
	require.NoError(t, m.Follow(ev, func(s State, _ uint64) { got = append(got, s) }))
	ev.EmitChainChanged(big.NewInt(0xd206))
	ev.EmitChainChanged(big.NewInt(1))
	assert.Equal(t, []State{Matched, Mismatched}, got)
}
