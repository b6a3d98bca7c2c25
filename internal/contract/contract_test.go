package contract

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/Mohsinsiddi/lumen/internal/method"
	"github.com/Mohsinsiddi/lumen/internal/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

var (
	chapterAddr = common.HexToAddress("0x6E36C9b901fcc6bA468AccA471C805D67e6AAfb8")
	userAddr    = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type request struct {
	method string
	params []any
}

// fakeWallet answers requests from a handler table and records every call.
type fakeWallet struct {
	*provider.Events
	mu       sync.Mutex
	requests []request
	handlers map[string]func(params []any) (any, error)
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{Events: provider.NewEvents(), handlers: map[string]func([]any) (any, error){}}
}

func (f *fakeWallet) on(method string, fn func(params []any) (any, error)) {
	f.handlers[method] = fn
}

func (f *fakeWallet) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, request{method: method, params: params})
	fn := f.handlers[method]
	f.mu.Unlock()
	if fn == nil {
		return nil, provider.NewError(provider.CodeUnsupportedMethod, "%s not supported", method)
	}
	res, err := fn(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (f *fakeWallet) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.method == method {
			n++
		}
	}
	return n
}

func lookup(t *testing.T, sig string) *method.Method {
	t.Helper()
	r, err := method.Default()
	require.NoError(t, err)
	m, err := r.Lookup(sig)
	require.NoError(t, err)
	return m
}

func returns(t *testing.T, types []abi.Type, values ...any) func([]any) (any, error) {
	t.Helper()
	data, err := abi.EncodeBytes(types, values)
	require.NoError(t, err)
	return func([]any) (any, error) { return hexutil.Encode(data), nil }
}

// ---------------------------------------------------------------------------
// BuildCall
// ---------------------------------------------------------------------------

func TestBuildCallBalanceOf(t *testing.T) {
	m := lookup(t, "balanceOf(address)")
	p, err := BuildCall(m, []any{userAddr})
	require.NoError(t, err)

	want := "0x70a08231" + strings.Repeat("0", 24) + strings.Repeat("1", 40)
	assert.Equal(t, want, p.Hex())
	assert.Len(t, p.Head, 1)
	assert.Empty(t, p.Tail)
	assert.Equal(t, 36, p.Len())
}

func TestBuildCallNoArguments(t *testing.T) {
	m := lookup(t, "hear()")
	p, err := BuildCall(m, nil)
	require.NoError(t, err)
	assert.Equal(t, m.Selector.Hex(), p.Hex())
	assert.Empty(t, p.Arguments())
}

func TestBuildCallArityMismatch(t *testing.T) {
	m := lookup(t, "balanceOf(address)")
	_, err := BuildCall(m, nil)
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = BuildCall(m, []any{userAddr, userAddr})
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestBuildCallSurfacesEncodingError(t *testing.T) {
	m := lookup(t, "billAndSet(address,string,string)")
	_, err := BuildCall(m, []any{"0xnothex", "a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, abi.ErrInvalidAddress)

	var ee *abi.EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, ee.Index)
}

func TestBuildCallInterleavedDynamicArguments(t *testing.T) {
	m := lookup(t, "nextCycleBill(string,uint256,string)")
	long := "longer-than-32-bytes-of-text-for-the-tail"
	p, err := BuildCall(m, []any{"ab", big.NewInt(5), long})
	require.NoError(t, err)

	require.Len(t, p.Head, 3)
	assert.Equal(t, byte(0x60), p.Head[0][31])
	assert.Equal(t, byte(5), p.Head[1][31])
	assert.Equal(t, byte(0xa0), p.Head[2][31])
	assert.Zero(t, len(p.Tail)%abi.WordSize)

	got, err := abi.Decode(p.Arguments(), m.InputTypes())
	require.NoError(t, err)
	assert.Equal(t, "ab", got[0])
	assert.Equal(t, "5", abi.Format(got[1]))
	assert.Equal(t, long, got[2])
}

func TestDecodeCall(t *testing.T) {
	reg, err := method.Default()
	require.NoError(t, err)
	m := lookup(t, "billAndSet(address,string,string)")

	p, err := BuildCall(m, []any{userAddr, "cycle-key", "ipfs://x"})
	require.NoError(t, err)

	got, args, err := DecodeCall(reg, p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m.Signature, got.Signature)
	assert.Equal(t, []any{userAddr, "cycle-key", "ipfs://x"}, args)

	_, _, err = DecodeCall(reg, []byte{0x70, 0xa0})
	assert.ErrorIs(t, err, abi.ErrTruncatedData)

	_, _, err = DecodeCall(reg, []byte{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, method.ErrUnknownMethod)
}

// ---------------------------------------------------------------------------
// Dispatcher.Call
// ---------------------------------------------------------------------------

func TestCallDecodesDynamicOutputs(t *testing.T) {
	w := newFakeWallet()
	m := lookup(t, "queryPartialName(string)")
	chapters := []any{chapterAddr, userAddr}
	names := []any{"alpha", "a much longer chapter name that spans two words"}
	w.on(provider.MethodCall, returns(t, m.OutputTypes(), chapters, names))

	d := NewDispatcher(w)
	out, err := d.Call(context.Background(), chapterAddr, m, "a")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, chapters, out[0])
	assert.Equal(t, names, out[1])

	require.Len(t, w.requests, 1)
	params := w.requests[0].params
	require.Len(t, params, 2)
	req, ok := params[0].(provider.CallRequest)
	require.True(t, ok)
	assert.Equal(t, chapterAddr, req.To)
	assert.Equal(t, m.Selector[:], []byte(req.Data[:4]))
	assert.Equal(t, provider.BlockLatest, params[1])
}

func TestCallRejectsWriteMethod(t *testing.T) {
	w := newFakeWallet()
	d := NewDispatcher(w)
	_, err := d.Call(context.Background(), chapterAddr, lookup(t, "hear()"))
	assert.ErrorIs(t, err, ErrNotReadOnly)
	assert.Empty(t, w.requests)
}

func TestCallMalformedResponse(t *testing.T) {
	tests := []struct {
		name   string
		result any
		is     error
	}{
		{"not a string", 42, nil},
		{"not hex", "0xzz", nil},
		{"truncated", "0x0102", abi.ErrTruncatedData},
		{"trailing", "0x" + strings.Repeat("00", 64), abi.ErrTrailingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWallet()
			w.on(provider.MethodCall, func([]any) (any, error) { return tt.result, nil })
			d := NewDispatcher(w)

			_, err := d.Call(context.Background(), chapterAddr, lookup(t, "chapterFee()"))
			require.Error(t, err)
			var de *abi.DecodeError
			assert.ErrorAs(t, err, &de)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestCallProviderErrorUnchanged(t *testing.T) {
	w := newFakeWallet()
	w.on(provider.MethodCall, func([]any) (any, error) {
		return nil, provider.NewError(provider.CodeDisconnected, "node unreachable")
	})
	d := NewDispatcher(w)

	_, err := d.Call(context.Background(), chapterAddr, lookup(t, "chapterFee()"))
	require.Error(t, err)
	assert.True(t, provider.IsCode(err, provider.CodeDisconnected))
	assert.Equal(t, 1, w.count(provider.MethodCall))
}

func TestCallTimeout(t *testing.T) {
	p := provider.Func(func(ctx context.Context, _ string, _ ...any) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	d := NewDispatcher(p, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := d.Call(context.Background(), chapterAddr, lookup(t, "chapterFee()"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// ---------------------------------------------------------------------------
// Dispatcher.SendTransaction
// ---------------------------------------------------------------------------

func TestSendTransactionNeedsAccount(t *testing.T) {
	w := newFakeWallet()
	d := NewDispatcher(w)
	_, err := d.SendTransaction(context.Background(), chapterAddr, lookup(t, "hear()"), nil)
	assert.ErrorIs(t, err, ErrNoActiveAccount)
	assert.Zero(t, w.count(provider.MethodSendTransaction))
}

func TestSendTransactionAfterConnect(t *testing.T) {
	hash := common.HexToHash("0xabcdef")
	w := newFakeWallet()
	w.on(provider.MethodRequestAccounts, func([]any) (any, error) { return []common.Address{userAddr}, nil })
	w.on(provider.MethodSendTransaction, func([]any) (any, error) { return hash, nil })

	d := NewDispatcher(w)
	acct, err := d.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, userAddr, acct)

	m := lookup(t, "luminate(string)")
	got, err := d.SendTransaction(context.Background(), chapterAddr, m, nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	require.Len(t, w.requests, 2)
	req, ok := w.requests[1].params[0].(provider.TxRequest)
	require.True(t, ok)
	assert.Equal(t, userAddr, req.From)
	assert.Equal(t, chapterAddr, req.To)
	assert.Equal(t, 0, (*big.Int)(req.Value).Sign())

	p, err := BuildCall(m, []any{"hello"})
	require.NoError(t, err)
	assert.Equal(t, p.Bytes(), []byte(req.Data))

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"value":"0x0"`)
}

func TestSendTransactionRejectsViewMethod(t *testing.T) {
	d := NewDispatcher(newFakeWallet(), WithAccount(userAddr))
	_, err := d.SendTransaction(context.Background(), chapterAddr, lookup(t, "chapterFee()"), nil)
	assert.ErrorIs(t, err, ErrNotWritable)
}

func TestSendTransactionUserRejection(t *testing.T) {
	w := newFakeWallet()
	w.on(provider.MethodSendTransaction, func([]any) (any, error) {
		return nil, provider.NewError(provider.CodeUserRejected, "user rejected the request")
	})
	d := NewDispatcher(w, WithAccount(userAddr))

	_, err := d.SendTransaction(context.Background(), chapterAddr, lookup(t, "hear()"), nil)
	require.Error(t, err)
	assert.True(t, provider.IsCode(err, provider.CodeUserRejected))
	assert.Equal(t, 1, w.count(provider.MethodSendTransaction))
}

func TestConnectWithoutAccounts(t *testing.T) {
	w := newFakeWallet()
	w.on(provider.MethodRequestAccounts, func([]any) (any, error) { return []common.Address{}, nil })
	_, err := NewDispatcher(w).Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

func TestAccountsChangedUpdatesSender(t *testing.T) {
	w := newFakeWallet()
	d := NewDispatcher(w, WithAccount(userAddr))

	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	w.EmitAccountsChanged([]common.Address{other})
	a, ok := d.Account()
	require.True(t, ok)
	assert.Equal(t, other, a)

	w.EmitAccountsChanged(nil)
	_, ok = d.Account()
	assert.False(t, ok)

	_, err := d.SendTransaction(context.Background(), chapterAddr, lookup(t, "hear()"), nil)
	assert.True(t, errors.Is(err, ErrNoActiveAccount))
}
