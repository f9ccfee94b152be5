package cmd

import (
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/state"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/Mohsinsiddi/dftcli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	ownerAddr    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	treasuryAddr = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	aliceAddr    = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
)

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command in-process against configDir with a
// fresh in-memory keystore.
func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	return runWith(t, wallet.NewInMemoryKeystore(), configDir, args...)
}

// setupLedger creates an owner, a treasury and alice, then initialises a
// ledger with the default 5% fee and 5% burn. Later calls must reuse the
// returned keystore to sign as the owner.
func setupLedger(t *testing.T) (string, wallet.KeystoreBackend) {
	t.Helper()
	dir := t.TempDir()
	ks := wallet.NewInMemoryKeystore()

	steps := [][]string{
		{"wallet", "add", "owner", "--key", ownerKey},
		{"wallet", "add", "treasury", treasuryAddr},
		{"wallet", "add", "alice", aliceAddr},
		{"init", "--owner", "owner", "--beneficiary", "treasury"},
	}
	for _, args := range steps {
		_, err := runWith(t, ks, dir, args...)
		require.NoError(t, err, "dftcli %v", args)
	}
	return dir, ks
}

// runWith executes the root command with ks standing in for the OS keychain
// and returns what it printed to stdout.
func runWith(t *testing.T, ks wallet.KeystoreBackend, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	keystoreOverride = ks
	t.Cleanup(func() { keystoreOverride = nil })

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()

	rootCmd.SetArgs(append([]string{"--config", dir}, args...))
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = stdout
	return <-done, runErr
}

func loadLedger(t *testing.T, dir string) *ledger.Ledger {
	t.Helper()
	st, err := state.NewFileStore(filepath.Join(dir, "ledger.json")).Load()
	require.NoError(t, err)
	l, err := ledger.Restore(st.Snapshot)
	require.NoError(t, err)
	return l
}

func tokens(s string) *big.Int { return units.MustParseUnits(s, ledger.Decimals) }

func assertBalance(t *testing.T, l *ledger.Ledger, addr, want string) {
	t.Helper()
	assert.Equal(t, tokens(want).String(), l.BalanceOf(common.HexToAddress(addr)).String(), addr)
}

func TestCommandsBeforeInit(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{{"balance", ownerAddr}, {"supply"}, {"holders"}, {"verify"}, {"quote", "1"}} {
		_, err := runCLI(t, dir, args...)
		assert.ErrorIs(t, err, state.ErrNoState, "dftcli %v", args)
	}
}

func TestInitCreatesLedger(t *testing.T) {
	dir, _ := setupLedger(t)
	l := loadLedger(t, dir)

	assert.Equal(t, common.HexToAddress(ownerAddr), l.Owner())
	assert.Equal(t, common.HexToAddress(treasuryAddr), l.FeeBeneficiary())
	assert.Equal(t, ledger.Policy{FeeRateBps: 500, BurnRateBps: 500}, l.Policy())
	assertBalance(t, l, ownerAddr, "1000000000")

	_, err := runCLI(t, dir, "init", "--owner", "owner", "--beneficiary", "treasury")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestInitRejectsBadPolicy(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "init", "--owner", ownerAddr, "--beneficiary", treasuryAddr, "--fee", "60%", "--burn", "50%")
	assert.ErrorIs(t, err, ledger.ErrInvalidPolicy)
	assert.NoFileExists(t, filepath.Join(dir, "ledger.json"))
}

func TestTransferAppliesFeeAndBurn(t *testing.T) {
	dir, ks := setupLedger(t)

	out, err := runWith(t, ks, dir, "transfer", "alice", "30", "--from", "owner", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent 27 DFT to alice")

	l := loadLedger(t, dir)
	assertBalance(t, l, aliceAddr, "27")
	assertBalance(t, l, treasuryAddr, "1.5")
	assertBalance(t, l, ownerAddr, "999999970")
	assert.Equal(t, tokens("999999998.5").String(), l.TotalSupply().String())
	require.NoError(t, l.Verify())

	_, err = runWith(t, ks, dir, "verify")
	assert.NoError(t, err)
}

func TestTransferInsufficientBalanceLeavesState(t *testing.T) {
	dir, ks := setupLedger(t)
	before := loadLedger(t, dir).Snapshot()

	_, err := runWith(t, ks, dir, "transfer", "alice", "1000000001", "--from", "owner", "--yes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	var rev *contract.RevertError
	require.True(t, errors.As(err, &rev))
	assert.Equal(t, "ERC20: transfer amount exceeds balance", rev.Reason)
	assert.Equal(t, before, loadLedger(t, dir).Snapshot())
}

func TestMintOwnerOnly(t *testing.T) {
	dir, ks := setupLedger(t)

	_, err := runWith(t, ks, dir, "mint", "alice", "5000", "--from", "owner")
	require.NoError(t, err)
	l := loadLedger(t, dir)
	assertBalance(t, l, aliceAddr, "5000")
	assert.Equal(t, tokens("1000005000").String(), l.TotalSupply().String())

	_, err = runWith(t, ks, dir, "wallet", "generate", "mallory")
	require.NoError(t, err)
	_, err = runWith(t, ks, dir, "mint", "mallory", "1", "--from", "mallory")
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)
	assert.Contains(t, errorLine(err), "Ownable: caller is not the owner")

	// A watch-only wallet cannot sign at all.
	_, err = runWith(t, ks, dir, "mint", "alice", "1", "--from", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}

func TestCallReadAndWrite(t *testing.T) {
	dir, ks := setupLedger(t)

	out, err := runWith(t, ks, dir, "call", "feeRate")
	require.NoError(t, err)
	assert.Contains(t, out, "500")

	_, err = runWith(t, ks, dir, "call", "transfer", "alice", "100", "--from", "owner")
	require.NoError(t, err)
	// Raw call arguments are base units.
	l := loadLedger(t, dir)
	assert.Equal(t, "90", l.BalanceOf(common.HexToAddress(aliceAddr)).String())
	assert.Equal(t, "5", l.BalanceOf(common.HexToAddress(treasuryAddr)).String())
}

func TestQuoteDoesNotMutate(t *testing.T) {
	dir, ks := setupLedger(t)
	before := loadLedger(t, dir).Snapshot()

	out, err := runWith(t, ks, dir, "quote", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "27 DFT")
	assert.Equal(t, before, loadLedger(t, dir).Snapshot())
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	_, err = parseAmount("abc")
	assert.Error(t, err)
	_, err = parseAmount("0.0000000000000000001")
	assert.Error(t, err)
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		part, total int64
		want        string
	}{
		{1, 3, "33.33%"},
		{2, 3, "66.66%"},
		{5, 5, "100.00%"},
		{0, 7, "0.00%"},
		{1, 0, "0.00%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percentOf(big.NewInt(tt.part), big.NewInt(tt.total)))
	}
}

func TestErrorLine(t *testing.T) {
	assert.Contains(t, errorLine(errors.New("ledger: invalid amount")), "invalid amount")
	assert.NotContains(t, errorLine(errors.New("ledger: invalid amount")), "ledger:")
}
