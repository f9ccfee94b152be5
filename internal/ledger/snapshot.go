package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is a deep copy of a ledger's full state.
type Snapshot struct {
	Owner          common.Address
	FeeBeneficiary common.Address
	Policy         Policy
	TotalSupply    *big.Int
	Balances       map[common.Address]*big.Int
	Stats          Stats
}

// Snapshot captures the current state under the read lock.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[common.Address]*big.Int, len(l.balances))
	for acct, bal := range l.balances {
		if bal.Sign() == 0 {
			continue
		}
		balances[acct] = new(big.Int).Set(bal)
	}
	return &Snapshot{
		Owner:          l.owner,
		FeeBeneficiary: l.beneficiary,
		Policy:         l.policy,
		TotalSupply:    new(big.Int).Set(l.totalSupply),
		Balances:       balances,
		Stats:          l.stats.clone(),
	}
}

// Restore rebuilds a ledger from s. The snapshot is validated against the
// same invariants Verify checks; s itself is not retained.
func Restore(s *Snapshot, opts ...Option) (*Ledger, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrCorruptSnapshot)
	}
	if err := s.Policy.Validate(); err != nil {
		return nil, err
	}
	if s.Owner == (common.Address{}) || s.FeeBeneficiary == (common.Address{}) {
		return nil, fmt.Errorf("%w: missing owner or fee beneficiary", ErrCorruptSnapshot)
	}
	if s.TotalSupply == nil || s.TotalSupply.Sign() < 0 || s.TotalSupply.Cmp(MaxSupply) > 0 {
		return nil, fmt.Errorf("%w: invalid total supply", ErrCorruptSnapshot)
	}

	l := newLedger(s.Owner, s.FeeBeneficiary, s.Policy, opts)
	for acct, bal := range s.Balances {
		if bal == nil {
			return nil, fmt.Errorf("%w: nil balance for %s", ErrCorruptSnapshot, acct.Hex())
		}
		if bal.Sign() == 0 {
			continue
		}
		l.balances[acct] = new(big.Int).Set(bal)
	}
	l.totalSupply = new(big.Int).Set(s.TotalSupply)
	l.stats.Mints = s.Stats.Mints
	l.stats.Transfers = s.Stats.Transfers
	counters := []struct{ dst, src *big.Int }{
		{l.stats.InitialSupply, s.Stats.InitialSupply},
		{l.stats.Minted, s.Stats.Minted},
		{l.stats.Burned, s.Stats.Burned},
		{l.stats.FeesCollected, s.Stats.FeesCollected},
	}
	for _, c := range counters {
		if c.src == nil || c.src.Sign() < 0 {
			return nil, fmt.Errorf("%w: invalid counters", ErrCorruptSnapshot)
		}
		c.dst.Set(c.src)
	}

	if err := verify(l.balances, l.totalSupply, l.stats); err != nil {
		return nil, err
	}
	return l, nil
}
