package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// JSONStore
// ---------------------------------------------------------------------------

func TestJSONStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewJSONStore(path)

	wallets := []*Wallet{
		{Name: "alice", Address: "0x1111", Type: TypeWatchOnly},
		{Name: "bob", Address: "0x2222", Type: TypeSigning, KeyRef: "dftcli.bob", IsDefault: true},
	}
	require.NoError(t, store.Save(wallets))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "alice", loaded[0].Name)
	assert.Equal(t, "dftcli.bob", loaded[1].KeyRef)
	assert.True(t, loaded[1].IsDefault)
}

func TestJSONStoreLoadNoFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nonexistent.json"))
	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, wallets)
}

func TestJSONStoreSaveRestrictivePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallets.json")
	require.NoError(t, NewJSONStore(path).Save(nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestJSONStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewJSONStore(path).Load()
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// InMemoryKeystore
// ---------------------------------------------------------------------------

func TestInMemoryKeystoreLifecycle(t *testing.T) {
	ks := NewInMemoryKeystore()

	ref, err := ks.Store("owner", testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, "dftcli.owner", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)

	assert.NoError(t, ks.Delete(ref), "deleting twice is a no-op")
}

func TestKeystoreNilRing(t *testing.T) {
	ks := &Keystore{}
	_, err := ks.Store("x", testPrivKeyHex)
	assert.Error(t, err)
	_, err = ks.Retrieve("dftcli.x")
	assert.Error(t, err)
	assert.NoError(t, ks.Delete("dftcli.x"))
}

// ---------------------------------------------------------------------------
// normaliseHexKey
// ---------------------------------------------------------------------------

func TestNormaliseHexKey(t *testing.T) {
	cases := map[string]string{
		"0xabc":    "abc",
		"0Xabc":    "abc",
		"abc":      "abc",
		"  0xabc ": "abc",
		"0x":       "",
		"":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normaliseHexKey(in), "input %q", in)
	}
}
