package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgScalars(t *testing.T) {
	v, err := ParseArg("0x10", Uint256)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(16).Cmp(v.(*big.Int)))

	v, err = ParseArg("1000000000000000000", Uint256)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", Format(v))

	v, err = ParseArg("TRUE", Bool)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ParseArg("0x9749156E590d0a8689Bc30F108773D7509D48A84", Address)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9749156E590d0a8689Bc30F108773D7509D48A84"), v)

	v, err = ParseArg("hello, world", String)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", v)
}

func TestParseArgErrors(t *testing.T) {
	_, err := ParseArg("abc", Uint256)
	assert.ErrorIs(t, err, ErrInvalidInteger)

	_, err = ParseArg("maybe", Bool)
	assert.ErrorIs(t, err, ErrInvalidBool)

	_, err = ParseArg("0x12", Address)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseArg(`["a",`, ArrayOf(String))
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestParseArgArrays(t *testing.T) {
	v, err := ParseArg(`["a","b,c"]`, ArrayOf(String))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b,c"}, v)

	v, err = ParseArg("1, 2, 3", ArrayOf(Uint256))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", Format(v))

	v, err = ParseArg("[1,2]", ArrayOf(Uint256))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", Format(v))

	v, err = ParseArg("[]", ArrayOf(Address))
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestAsHelpers(t *testing.T) {
	addrs, err := AsAddresses([]any{common.Address{1}, common.Address{2}})
	require.NoError(t, err)
	assert.Len(t, addrs, 2)

	_, err = AsAddresses([]any{"0x1"})
	assert.Error(t, err)

	_, err = AsStrings("not a list")
	assert.Error(t, err)

	_, err = AsUint(true)
	assert.Error(t, err)

	b, err := AsBool(true)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "[a, [b, c]]", Format([]any{"a", []any{"b", "c"}}))
	assert.Equal(t, "false", Format(false))
	assert.Equal(t, "0x0000000000000000000000000000000000000000", Format(common.Address{}))
}
