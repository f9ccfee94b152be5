package cmd

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSessionsApplyOneAfterAnother(t *testing.T) {
	dir, ks := setupLedger(t)
	keystoreOverride = ks
	owner := common.HexToAddress(ownerAddr)

	a, err := openWriteSession()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		b, err := openWriteSession()
		if err != nil {
			done <- err
			return
		}
		defer b.close()
		if _, err := b.ledger.Transfer(owner, common.HexToAddress(treasuryAddr), tokens("10")); err != nil {
			done <- err
			return
		}
		done <- b.commit()
	}()

	select {
	case err := <-done:
		t.Fatalf("second writer finished while the first held the lock: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	_, err = a.ledger.Transfer(owner, common.HexToAddress(aliceAddr), tokens("30"))
	require.NoError(t, err)
	require.NoError(t, a.commit())
	a.close()
	require.NoError(t, <-done)

	l := loadLedger(t, dir)
	assertBalance(t, l, aliceAddr, "27")
	// 1.5 fee from alice's transfer, then 9 net + 0.5 fee from the waiting one.
	assertBalance(t, l, treasuryAddr, "11")
	assert.Equal(t, uint64(2), l.Stats().Transfers)
	require.NoError(t, l.Verify())
}

func TestWriteSessionTimesOutWhileLocked(t *testing.T) {
	_, ks := setupLedger(t)
	keystoreOverride = ks

	saved := lockTimeout
	lockTimeout = 150 * time.Millisecond
	t.Cleanup(func() { lockTimeout = saved })

	a, err := openWriteSession()
	require.NoError(t, err)
	defer a.close()

	_, err = openWriteSession()
	assert.ErrorIs(t, err, errLedgerBusy)

	// Read sessions never wait for the lock.
	r, err := openSession()
	require.NoError(t, err)
	r.close()
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	_, ks := setupLedger(t)
	keystoreOverride = ks

	s, err := openWriteSession()
	require.NoError(t, err)
	s.close()
	s.close()

	again, err := openWriteSession()
	require.NoError(t, err)
	again.close()
}
