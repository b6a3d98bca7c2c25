package wallet

import (
	"math/big"
	"testing"

	"github.com/99designs/keyring"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// testKeychain returns a file-backed keychain isolated to a temp directory.
func testKeychain(t *testing.T) *Keychain {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      "lumen-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: keyring.FixedStringPrompt("testpass"),
	})
	require.NoError(t, err)
	return NewKeychain(ring)
}

// ---------------------------------------------------------------------------
// Keychain
// ---------------------------------------------------------------------------

func TestKeychainRoundTrip(t *testing.T) {
	ks := testKeychain(t)
	ref, err := ks.Store("main", "0x"+testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "lumen.main", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, ks.Delete(ref), "deleting twice is fine")
}

func TestKeychainEnvOverride(t *testing.T) {
	t.Setenv(EnvKey, "0x"+testPrivKeyHex)
	got, err := testKeychain(t).Retrieve("lumen.anything")
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)
}

func TestNormaliseHexKey(t *testing.T) {
	assert.Equal(t, "abc", normaliseHexKey("  0xabc  "))
	assert.Equal(t, "abc", normaliseHexKey("0Xabc"))
	assert.Equal(t, "", normaliseHexKey("0x"))
}

// ---------------------------------------------------------------------------
// Signer
// ---------------------------------------------------------------------------

func TestSignerAddress(t *testing.T) {
	s, err := NewSigner(testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), s.Address())

	_, err = NewSigner("zz")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignTxRecoversSender(t *testing.T) {
	s, err := NewSigner(testPrivKeyHex)
	require.NoError(t, err)

	chainID := big.NewInt(0xd206)
	to := common.HexToAddress("0x9749156E590d0a8689Bc30F108773D7509D48A84")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     7,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21_000,
		To:        &to,
		Value:     big.NewInt(0),
	})
	raw, err := s.SignTx(tx, chainID)
	require.NoError(t, err)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))
	from, err := types.Sender(types.NewLondonSigner(chainID), &decoded)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
	assert.Equal(t, uint64(7), decoded.Nonce())
}

func TestSignMessageVerify(t *testing.T) {
	s, err := NewSigner(testPrivKeyHex)
	require.NoError(t, err)

	sig, err := s.SignMessage([]byte("hello lumen"))
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	addr, err := VerifyMessage([]byte("hello lumen"), sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)

	other, err := VerifyMessage([]byte("tampered"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, s.Address(), other)

	_, err = VerifyMessage([]byte("x"), sig[:10])
	assert.Error(t, err)
}
