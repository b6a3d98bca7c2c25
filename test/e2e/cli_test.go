package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "lumen-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "lumen")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "LUMEN_CONFIG_DIR="+configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "lumen")
	assert.Contains(t, out, "0.3.0")
}

func TestHelpCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	for _, c := range []string{"chapter", "lux", "call", "send", "encode", "decode", "selector", "methods", "wallet", "network", "rpc", "watch"} {
		assert.Contains(t, out, c)
	}
	assert.Contains(t, out, "--network")
	assert.Contains(t, out, "--wallet")
}

// ---------------------------------------------------------------------------
// codec commands work offline
// ---------------------------------------------------------------------------

func TestSelectorFromSignature(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "selector", "transfer(address to, uint256 amount)")
	require.NoError(t, err)
	assert.Contains(t, out, "transfer(address,uint256)")
	assert.Contains(t, out, "0xa9059cbb")
}

func TestSelectorLookup(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "selector", "0x095ea7b3")
	require.NoError(t, err)
	assert.Contains(t, out, "approve(address,uint256)")
}

func TestSelectorUnknown(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "selector", "0xdeadbeef")
	assert.Error(t, err)
	assert.Contains(t, out, "unknown method")
}

func TestMethodsListsContracts(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "queryPartialName(string)")
	assert.Contains(t, out, "deployChapter(address,uint256,uint256,address)")
	assert.Contains(t, out, "0x70a08231")
}

func TestMethodsFilter(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "methods", "--contract", "erc20")
	require.NoError(t, err)
	assert.Contains(t, out, "balanceOf(address)")
	assert.NotContains(t, out, "luminate(string)")

	_, err = runCLI(t, t.TempDir(), "methods", "--contract", "nope")
	assert.Error(t, err)
}

func TestEncodeThenDecode(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "encode", "luminate", "gm")
	require.NoError(t, err)
	calldata := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(calldata, "0x"))
	// selector + offset + length + one data word
	assert.Len(t, calldata, 2+8+3*64)

	out, err = runCLI(t, dir, "decode", calldata)
	require.NoError(t, err)
	assert.Contains(t, out, "luminate(string)")
	assert.Contains(t, out, "gm")
}

func TestEncodeStaticArgs(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "encode", "approve", "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", "1000")
	require.NoError(t, err)
	assert.Equal(t, "0x095ea7b3"+
		"000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045"+
		"00000000000000000000000000000000000000000000000000000000000003e8", strings.TrimSpace(out))
}

func TestEncodeArityMismatch(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "encode", "approve", "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	assert.Error(t, err)
	assert.Contains(t, out, "takes 2 argument(s), got 1")
}

func TestDecodeReturnData(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "decode",
		"0x000000000000000000000000000000000000000000000000000000000000002a", "--output", "uint256")
	require.NoError(t, err)
	assert.Contains(t, out, "42")
}

// ---------------------------------------------------------------------------
// local state
// ---------------------------------------------------------------------------

func TestNetworkList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "network", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sonic-blaze-testnet")
	assert.Contains(t, out, "0xd206")
	assert.Contains(t, out, "sonic")
}

func TestNetworkUse(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "network", "use", "146")
	require.NoError(t, err)
	assert.Contains(t, out, "Sonic")

	cfgOut, err := runCLI(t, dir, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, cfgOut, `"network": "sonic"`)
}

func TestNetworkUseUnknown(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "network", "use", "unknownchain99")
	assert.Error(t, err)
}

func TestNetworkStatusFreshWallet(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "network", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "mismatched")
}

func TestWalletAddAndList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "testwal", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "testwal")
	assert.Contains(t, out, "0x1234")
}

func TestWalletAddInvalidAddress(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "wallet", "add", "bad", "0x1234")
	assert.Error(t, err)
}

func TestWalletRemove(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "wallet", "add", "w1", "0x1234567890abcdef1234567890abcdef12345678") //nolint:errcheck

	// Use stdin to auto-confirm the prompt.
	cmd := exec.Command(binaryPath, "wallet", "remove", "w1")
	cmd.Env = append(os.Environ(), "LUMEN_CONFIG_DIR="+dir)
	cmd.Stdin = strings.NewReader("y\n")
	cmd.Run() //nolint:errcheck

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "w1")
}

func TestSendWithoutWallet(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "send", "lux", "approve", "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", "1")
	assert.Error(t, err)
	assert.Contains(t, out, "lumen wallet list")
}

func TestRPCAddRemove(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "rpc", "add", "sonic-blaze-testnet", "https://custom.rpc.url")
	require.NoError(t, err)

	out, _ := runCLI(t, dir, "config", "list")
	assert.Contains(t, out, "custom.rpc.url")

	_, err = runCLI(t, dir, "rpc", "remove", "sonic-blaze-testnet", "https://custom.rpc.url")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "rpc", "remove", "sonic-blaze-testnet", "https://custom.rpc.url")
	assert.Error(t, err)
}

func TestConfigList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "rpc_algorithm")
	assert.Contains(t, out, "chapter_mapper")
}

func TestConfigSetAlgorithm(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-algorithm", "round-robin")
	require.NoError(t, err)
	out, _ := runCLI(t, dir, "config", "list")
	assert.Contains(t, out, "round-robin")

	_, err = runCLI(t, dir, "config", "set-algorithm", "random")
	assert.Error(t, err)
}

func TestConfigSetContract(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-contract", "lux", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "config", "set-contract", "oracle", "0x1234567890abcdef1234567890abcdef12345678")
	assert.Error(t, err)
}

func TestUnknownCommandShowsError(t *testing.T) {
	out, _ := runCLI(t, t.TempDir(), "unknowncommand")
	assert.Contains(t, strings.ToLower(out), "unknown command")
}
