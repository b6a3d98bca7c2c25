package method

import (
	"testing"

	"github.com/Mohsinsiddi/lumen/internal/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	require.NoError(t, err)
	return r
}

func TestSelectorOfKnownSignatures(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"balanceOf(address)", "0x70a08231"},
		{"transfer(address,uint256)", "0xa9059cbb"},
		{"name()", "0x06fdde03"},
		{"symbol()", "0x95d89b41"},
		{"decimals()", "0x313ce567"},
		{"totalSupply()", "0x18160ddd"},
		{"approve(address,uint256)", "0x095ea7b3"},
		{"allowance(address,address)", "0xdd62ed3e"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectorOf(tt.sig).Hex())
		})
	}
}

func TestLookupBalanceOfSelectorIsKeccakPrefix(t *testing.T) {
	r := defaultRegistry(t)
	m, err := r.Lookup("balanceOf(address)")
	require.NoError(t, err)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("balanceOf(address)"))
	digest := h.Sum(nil)

	assert.Equal(t, digest[:4], m.Selector[:])
	assert.Equal(t, "balanceOf", m.Name)
	assert.True(t, m.IsView())
	require.Len(t, m.Outputs, 1)
	assert.Equal(t, abi.Uint256, m.Outputs[0].Type)
}

func TestBuiltinSelectorsMatchSignatures(t *testing.T) {
	r := defaultRegistry(t)
	for _, m := range r.All() {
		assert.Equal(t, SelectorOf(m.Signature), m.Selector, m.Signature)
		assert.Len(t, m.Inputs, len(m.InputTypes()))
		assert.Equal(t, m.Signature, CanonicalSignature(m.Name, m.InputTypes()))
	}
}

func TestDefaultRegistryContents(t *testing.T) {
	r := defaultRegistry(t)

	total := 0
	for _, c := range Builtins() {
		total += len(c.Methods)
		assert.Len(t, r.ForContract(c.ID), len(c.Methods), c.ID)
	}
	assert.Equal(t, total, r.Len())

	for _, sig := range []string{
		"queryPartialName(string)",
		"getLumen(uint256)",
		"nextCycleBill(string,uint256,string)",
		"billAndSet(address,string,string)",
		"deployChapter(address,uint256,uint256,address)",
		"claim(address)",
	} {
		_, err := r.Lookup(sig)
		assert.NoError(t, err, sig)
	}

	m, err := r.Lookup("queryPartialName(string)")
	require.NoError(t, err)
	assert.Equal(t, []abi.Type{abi.ArrayOf(abi.Address), abi.ArrayOf(abi.String)}, m.OutputTypes())
}

func TestLookupUnknown(t *testing.T) {
	r := defaultRegistry(t)
	_, err := r.Lookup("mint(address,uint256)")
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = r.LookupSelector(Selector{0xde, 0xad, 0xbe, 0xef})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestLookupCanonicalizes(t *testing.T) {
	r := defaultRegistry(t)
	m, err := r.Lookup("getLumen(uint)")
	require.NoError(t, err)
	assert.Equal(t, "getLumen(uint256)", m.Signature)

	m2, err := r.LookupSelector(m.Selector)
	require.NoError(t, err)
	assert.Same(t, m, m2)
}

func TestResolveByName(t *testing.T) {
	r := defaultRegistry(t)
	m, err := r.Resolve("chapterFee")
	require.NoError(t, err)
	assert.Equal(t, "chapterFee()", m.Signature)

	_, err = r.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestResolveOverloaded(t *testing.T) {
	r, err := NewRegistry(Contract{ID: "x", Methods: []Definition{
		{Signature: "f(uint256)", Inputs: Params("uint256"), Mutability: View},
		{Signature: "f(address)", Inputs: Params("address"), Mutability: View},
	}})
	require.NoError(t, err)

	_, err = r.Resolve("f")
	assert.ErrorIs(t, err, ErrUnknownMethod)

	m, err := r.Resolve("f(address)")
	require.NoError(t, err)
	assert.Equal(t, "f(address)", m.Signature)
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	def := Definition{Signature: "hear()", Mutability: NonPayable}
	_, err := NewRegistry(
		Contract{ID: "a", Methods: []Definition{def}},
		Contract{ID: "b", Methods: []Definition{def}},
	)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegistryRejectsSignatureDrift(t *testing.T) {
	_, err := NewRegistry(Contract{ID: "a", Methods: []Definition{{
		Signature:  "balanceOf(address)",
		Inputs:     Params("uint256"),
		Mutability: View,
	}}})
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	_, err = NewRegistry(Contract{ID: "a", Methods: []Definition{{
		Signature:  "luminate(string)",
		Mutability: NonPayable,
	}}})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestRegistryRejectsBadDefinitions(t *testing.T) {
	_, err := NewRegistry(Contract{ID: "a", Methods: []Definition{{Signature: "oops", Mutability: View}}})
	assert.ErrorIs(t, err, ErrMalformedSignature)

	_, err = NewRegistry(Contract{ID: "a", Methods: []Definition{{Signature: "f()", Mutability: "payable"}}})
	assert.Error(t, err)
}

func TestParseSignature(t *testing.T) {
	name, types, err := ParseSignature("nextCycleBill(string, uint256, string)")
	require.NoError(t, err)
	assert.Equal(t, "nextCycleBill", name)
	assert.Equal(t, []abi.Type{abi.String, abi.Uint256, abi.String}, types)

	_, _, err = ParseSignature("(address)")
	assert.ErrorIs(t, err, ErrMalformedSignature)

	_, _, err = ParseSignature("f(bytes)")
	assert.ErrorIs(t, err, ErrMalformedSignature)
}

func TestMethodString(t *testing.T) {
	r := defaultRegistry(t)
	m, err := r.Lookup("isHearer(address)")
	require.NoError(t, err)
	assert.Equal(t, "isHearer(address) view returns (address,string,uint256,bool)", m.String())

	m, err = r.Lookup("hear()")
	require.NoError(t, err)
	assert.Equal(t, "hear()", m.String())
}
