package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func testSigner(t *testing.T) (*Wallet, *InMemoryKeystore) {
	t.Helper()
	iks := NewInMemoryKeystore()
	ref, err := iks.Store("signer", testPrivKeyHex)
	require.NoError(t, err)
	return &Wallet{Name: "signer", Address: testSignerAddr, Type: TypeSigning, KeyRef: ref}, iks
}

// ---------------------------------------------------------------------------
// SignMessage + VerifyMessage
// ---------------------------------------------------------------------------

func TestSignMessageRoundTrip(t *testing.T) {
	w, iks := testSigner(t)
	message := []byte{0x40, 0xc1, 0x0f, 0x19, 0x01, 0x02}

	sig, err := SignMessage(w, iks, message)
	require.NoError(t, err)
	assert.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := VerifyMessage(message, sig)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, recovered.Hex())
}

func TestSignMessageEmptyMessage(t *testing.T) {
	w, iks := testSigner(t)

	sig, err := SignMessage(w, iks, nil)
	require.NoError(t, err)

	recovered, err := VerifyMessage(nil, sig)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, recovered.Hex())
}

func TestVerifyMessageWrongMessage(t *testing.T) {
	w, iks := testSigner(t)

	sig, err := SignMessage(w, iks, []byte("mint 100"))
	require.NoError(t, err)

	recovered, err := VerifyMessage([]byte("mint 1000"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, testSignerAddr, recovered.Hex(), "tampered message recovers a different signer")
}

func TestVerifyMessageInvalidSigLength(t *testing.T) {
	_, err := VerifyMessage([]byte("x"), make([]byte, 64))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature length")
}

func TestVerifyMessageInvalidRecoveryID(t *testing.T) {
	w, iks := testSigner(t)
	sig, err := SignMessage(w, iks, []byte("x"))
	require.NoError(t, err)

	sig[64] = 5
	_, err = VerifyMessage([]byte("x"), sig)
	assert.Error(t, err)
}

func TestSignMessageWatchOnlyError(t *testing.T) {
	w := &Wallet{Name: "watcher", Address: testSignerAddr, Type: TypeWatchOnly}
	_, err := SignMessage(w, NewInMemoryKeystore(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}

func TestSignMessageMissingKey(t *testing.T) {
	w := &Wallet{Name: "lost", Address: testSignerAddr, Type: TypeSigning, KeyRef: "dftcli.lost"}
	_, err := SignMessage(w, NewInMemoryKeystore(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving key")
}

func TestSignMessageKeyAddressMismatch(t *testing.T) {
	w, iks := testSigner(t)
	w.Address = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	_, err := SignMessage(w, iks, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to")
}

func TestEIP191Hash(t *testing.T) {
	assert.Equal(t, eip191Hash([]byte("a")), eip191Hash([]byte("a")))
	assert.NotEqual(t, eip191Hash([]byte("a")), eip191Hash([]byte("b")))
	assert.Len(t, eip191Hash([]byte("a")), 32)
}
