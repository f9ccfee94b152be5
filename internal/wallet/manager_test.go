package wallet_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/dftcli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	ownerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	require.NoError(t, mgr.Add("beneficiary", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"))

	w, err := mgr.Get("beneficiary")
	require.NoError(t, err)
	assert.Equal(t, "beneficiary", w.Name)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", w.Address, "address is checksummed")
	assert.False(t, w.CanSign())
}

func TestAddRejectsBadAddress(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	err := mgr.Add("bad", "0x123")
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.Add("dup", ownerAddr))
	assert.ErrorIs(t, mgr.Add("dup", ownerAddr), wallet.ErrWalletExists)
	assert.ErrorIs(t, mgr.AddWithKey("dup", ownerKey), wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	require.NoError(t, mgr.AddWithKey("owner", ownerKey))

	w, err := mgr.Get("owner")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, ownerAddr, w.Address)
	assert.True(t, w.CanSign())
	assert.Equal(t, common.HexToAddress(ownerAddr), w.Account())
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	err := mgr.AddWithKey("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestListWalletsSorted(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	mgr.Add("carol", "0x0000000000000000000000000000000000000003") //nolint:errcheck
	mgr.Add("alice", "0x0000000000000000000000000000000000000001") //nolint:errcheck
	mgr.Add("bob", "0x0000000000000000000000000000000000000002")   //nolint:errcheck

	list := mgr.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].Name)
	assert.Equal(t, "bob", list[1].Name)
	assert.Equal(t, "carol", list[2].Name)
}

func TestRemoveWallet(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("owner", ownerKey))

	w, err := mgr.Get("owner")
	require.NoError(t, err)
	ref := w.KeyRef

	require.NoError(t, mgr.Remove("owner"))

	_, err = mgr.Get("owner")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Retrieve(ref)
	assert.Error(t, err, "removing a wallet deletes its key")
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

// ---------------------------------------------------------------------------
// Default
// ---------------------------------------------------------------------------

func TestSetDefault(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	mgr.Add("w1", "0x0000000000000000000000000000000000000001") //nolint:errcheck
	mgr.Add("w2", "0x0000000000000000000000000000000000000002") //nolint:errcheck

	require.NoError(t, mgr.SetDefault("w2"))
	assert.Equal(t, "w2", mgr.Default().Name)

	require.NoError(t, mgr.SetDefault("w1"))
	assert.Equal(t, "w1", mgr.Default().Name)
	w2, _ := mgr.Get("w2")
	assert.False(t, w2.IsDefault)
}

func TestSetDefaultUnknown(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.SetDefault("ghost"), wallet.ErrWalletNotFound)
}

func TestDefaultWalletWithSingleWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.Nil(t, mgr.Default())

	mgr.Add("only", ownerAddr) //nolint:errcheck
	require.NotNil(t, mgr.Default())
	assert.Equal(t, "only", mgr.Default().Name)
}

// ---------------------------------------------------------------------------
// Resolve / NameOf
// ---------------------------------------------------------------------------

func TestResolveByName(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("owner", ownerKey))

	addr, err := mgr.Resolve("owner")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(ownerAddr), addr)
}

func TestResolveByAddress(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	addr, err := mgr.Resolve("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	require.NoError(t, err)
	assert.Equal(t, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC", addr.Hex())
}

func TestResolveUnknown(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.Resolve("nobody")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestNameOf(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("owner", ownerKey))

	assert.Equal(t, "owner", mgr.NameOf(common.HexToAddress(ownerAddr)))
	assert.Empty(t, mgr.NameOf(common.HexToAddress("0x01")))
}

// ---------------------------------------------------------------------------
// Generate
// ---------------------------------------------------------------------------

func TestGenerateWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	w, hexKey, err := mgr.Generate("fresh")
	require.NoError(t, err)

	assert.Equal(t, "fresh", w.Name)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.NotEmpty(t, w.CreatedAt)
	assert.True(t, common.IsHexAddress(w.Address))

	// Key must be "0x" + 64 hex chars.
	assert.True(t, strings.HasPrefix(hexKey, "0x"))
	assert.Len(t, hexKey, 66)

	exported, err := mgr.ExportKey("fresh")
	require.NoError(t, err)
	assert.Equal(t, hexKey, exported)
}

func TestGenerateWalletDuplicateErrors(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, _, err := mgr.Generate("dup")
	require.NoError(t, err)

	_, _, err = mgr.Generate("dup")
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestGenerateUniqueKeys(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	w1, key1, err := mgr.Generate("g1")
	require.NoError(t, err)
	w2, key2, err := mgr.Generate("g2")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, w1.Address, w2.Address)
}

// ---------------------------------------------------------------------------
// ExportKey
// ---------------------------------------------------------------------------

func TestExportKeyRoundTrip(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("exporter", ownerKey))

	got, err := mgr.ExportKey("exporter")
	require.NoError(t, err)
	assert.Equal(t, ownerKey, got)
}

func TestExportKeyNotFound(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.ExportKey("ghost")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestExportKeyWatchOnlyErrors(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	mgr.Add("watch", ownerAddr) //nolint:errcheck

	_, err := mgr.ExportKey("watch")
	assert.ErrorIs(t, err, wallet.ErrWatchOnly)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestManagerPersistsThroughJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	ks := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("owner", ownerKey))
	require.NoError(t, mgr.SetDefault("owner"))

	reopened := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	def := reopened.Default()
	require.NotNil(t, def)
	assert.Equal(t, "owner", def.Name)

	key, err := reopened.ExportKey("owner")
	require.NoError(t, err)
	assert.Equal(t, ownerKey, key)
}
