// Package ledger implements a deflationary fungible-token balance ledger:
// owner-gated minting and transfers that pay a fee to a beneficiary and burn
// a fixed share of every amount moved.
package ledger

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Decimals is the implied precision of every amount: one token is 10^18 units.
const Decimals = 18

// MaxSupply is the largest total supply a ledger can hold, 2^256-1. Every
// balance is bounded by the total supply, so each fits a uint256 as well.
var MaxSupply = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Params are the construction-time values of a ledger.
type Params struct {
	InitialSupply  *big.Int
	Owner          common.Address
	FeeBeneficiary common.Address
	Policy         Policy
}

// Stats are cumulative counters since the ledger was created.
type Stats struct {
	InitialSupply *big.Int
	Minted        *big.Int
	Burned        *big.Int
	FeesCollected *big.Int
	Mints         uint64
	Transfers     uint64
}

func (s Stats) clone() Stats {
	return Stats{
		InitialSupply: new(big.Int).Set(s.InitialSupply),
		Minted:        new(big.Int).Set(s.Minted),
		Burned:        new(big.Int).Set(s.Burned),
		FeesCollected: new(big.Int).Set(s.FeesCollected),
		Mints:         s.Mints,
		Transfers:     s.Transfers,
	}
}

// Holding is one non-zero balance.
type Holding struct {
	Account common.Address
	Balance *big.Int
}

// Ledger is safe for concurrent use. Every mutating call is applied
// atomically under a single writer lock.
type Ledger struct {
	mu          sync.RWMutex
	owner       common.Address
	beneficiary common.Address
	policy      Policy
	balances    map[common.Address]*big.Int
	totalSupply *big.Int
	stats       Stats

	logger    *zap.Logger
	observers []func(Event)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.logger = l
		}
	}
}

// WithObserver registers fn to receive every committed event.
func WithObserver(fn func(Event)) Option {
	return func(lg *Ledger) {
		lg.observers = append(lg.observers, fn)
	}
}

// New creates a ledger whose whole initial supply is credited to the owner.
func New(p Params, opts ...Option) (*Ledger, error) {
	if err := p.Policy.Validate(); err != nil {
		return nil, err
	}
	supply := p.InitialSupply
	if supply == nil {
		supply = new(big.Int)
	}
	if supply.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative initial supply", ErrInvalidAmount)
	}
	if supply.Cmp(MaxSupply) > 0 {
		return nil, fmt.Errorf("%w: initial supply %s", ErrSupplyOverflow, supply)
	}
	if p.Owner == (common.Address{}) {
		return nil, fmt.Errorf("%w: owner is the zero address", ErrInvalidAccount)
	}
	if p.FeeBeneficiary == (common.Address{}) {
		return nil, fmt.Errorf("%w: fee beneficiary is the zero address", ErrInvalidAccount)
	}

	l := newLedger(p.Owner, p.FeeBeneficiary, p.Policy, opts)
	if supply.Sign() > 0 {
		l.balances[p.Owner] = new(big.Int).Set(supply)
	}
	l.totalSupply = new(big.Int).Set(supply)
	l.stats.InitialSupply = new(big.Int).Set(supply)

	l.logger.Info("ledger created",
		zap.Stringer("owner", p.Owner),
		zap.Stringer("fee_beneficiary", p.FeeBeneficiary),
		zap.Stringer("initial_supply", supply),
		zap.Uint32("fee_bps", p.Policy.FeeRateBps),
		zap.Uint32("burn_bps", p.Policy.BurnRateBps),
	)
	return l, nil
}

func newLedger(owner, beneficiary common.Address, policy Policy, opts []Option) *Ledger {
	l := &Ledger{
		owner:       owner,
		beneficiary: beneficiary,
		policy:      policy,
		balances:    make(map[common.Address]*big.Int),
		totalSupply: new(big.Int),
		stats: Stats{
			InitialSupply: new(big.Int),
			Minted:        new(big.Int),
			Burned:        new(big.Int),
			FeesCollected: new(big.Int),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mint credits amount to `to`. Only the owner may mint; no fee or burn applies.
func (l *Ledger) Mint(caller, to common.Address, amount *big.Int) error {
	// owner never changes after construction.
	if caller != l.owner {
		return l.reject("mint", caller, to, amount, fmt.Errorf("%w: %s", ErrUnauthorized, caller.Hex()))
	}
	if err := checkAmount(amount); err != nil {
		return l.reject("mint", caller, to, amount, err)
	}
	if to == (common.Address{}) {
		return l.reject("mint", caller, to, amount, fmt.Errorf("%w: mint to the zero address", ErrInvalidAccount))
	}

	l.mu.Lock()
	if next := new(big.Int).Add(l.totalSupply, amount); next.Cmp(MaxSupply) > 0 {
		l.mu.Unlock()
		return l.reject("mint", caller, to, amount, fmt.Errorf("%w: supply would reach %s", ErrSupplyOverflow, next))
	}
	l.credit(to, amount)
	l.totalSupply.Add(l.totalSupply, amount)
	l.stats.Minted.Add(l.stats.Minted, amount)
	l.stats.Mints++
	l.mu.Unlock()

	ev := Event{
		Kind:   KindMint,
		Caller: caller,
		To:     to,
		Split: Split{
			Amount: new(big.Int).Set(amount),
			Fee:    new(big.Int),
			Burn:   new(big.Int),
			Net:    new(big.Int).Set(amount),
		},
	}
	l.logger.Debug("mint",
		zap.Stringer("caller", caller),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount),
	)
	l.emit(ev)
	return nil
}

// Transfer moves amount out of the caller's balance: the recipient receives
// the net amount, the fee beneficiary the fee, and the burn leaves supply.
func (l *Ledger) Transfer(caller, to common.Address, amount *big.Int) (Split, error) {
	split, err := l.policy.Split(amount)
	if err != nil {
		return Split{}, l.reject("transfer", caller, to, amount, err)
	}
	if to == (common.Address{}) {
		return Split{}, l.reject("transfer", caller, to, amount, fmt.Errorf("%w: transfer to the zero address", ErrInvalidAccount))
	}

	l.mu.Lock()
	bal := l.balanceOf(caller)
	if bal.Cmp(amount) < 0 {
		l.mu.Unlock()
		return Split{}, l.reject("transfer", caller, to, amount,
			fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, bal, amount))
	}
	l.debit(caller, split.Amount)
	l.credit(to, split.Net)
	l.credit(l.beneficiary, split.Fee)
	l.totalSupply.Sub(l.totalSupply, split.Burn)
	l.stats.Burned.Add(l.stats.Burned, split.Burn)
	l.stats.FeesCollected.Add(l.stats.FeesCollected, split.Fee)
	l.stats.Transfers++
	l.mu.Unlock()

	l.logger.Debug("transfer",
		zap.Stringer("caller", caller),
		zap.Stringer("to", to),
		zap.Stringer("amount", split.Amount),
		zap.Stringer("fee", split.Fee),
		zap.Stringer("burn", split.Burn),
	)
	l.emit(Event{Kind: KindTransfer, Caller: caller, To: to, Split: split})
	return split, nil
}

// Quote returns the split a transfer of amount would produce, without
// touching any balance.
func (l *Ledger) Quote(amount *big.Int) (Split, error) {
	return l.policy.Split(amount)
}

// BalanceOf returns a copy of the account's balance (zero if unknown).
func (l *Ledger) BalanceOf(account common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balanceOf(account))
}

// TotalSupply returns a copy of the current total supply.
func (l *Ledger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.totalSupply)
}

// Owner returns the only account allowed to mint.
func (l *Ledger) Owner() common.Address { return l.owner }

// FeeBeneficiary returns the account credited with transfer fees.
func (l *Ledger) FeeBeneficiary() common.Address { return l.beneficiary }

// Policy returns the fee and burn rates.
func (l *Ledger) Policy() Policy { return l.policy }

// Stats returns a copy of the cumulative counters.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats.clone()
}

// Holders lists all non-zero balances, largest first. Ties are ordered by
// address bytes.
func (l *Ledger) Holders() []Holding {
	l.mu.RLock()
	out := make([]Holding, 0, len(l.balances))
	for acct, bal := range l.balances {
		if bal.Sign() == 0 {
			continue
		}
		out = append(out, Holding{Account: acct, Balance: new(big.Int).Set(bal)})
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Balance.Cmp(out[j].Balance); c != 0 {
			return c > 0
		}
		return bytes.Compare(out[i].Account[:], out[j].Account[:]) < 0
	})
	return out
}

// Verify checks that balances sum to total supply and that total supply
// equals initial supply plus minted minus burned.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return verify(l.balances, l.totalSupply, l.stats)
}

func verify(balances map[common.Address]*big.Int, total *big.Int, st Stats) error {
	sum := new(big.Int)
	for acct, bal := range balances {
		if bal.Sign() < 0 {
			return fmt.Errorf("%w: negative balance for %s", ErrCorruptSnapshot, acct.Hex())
		}
		sum.Add(sum, bal)
	}
	if sum.Cmp(total) != 0 {
		return fmt.Errorf("%w: balances sum to %s, total supply is %s", ErrCorruptSnapshot, sum, total)
	}
	expected := new(big.Int).Add(st.InitialSupply, st.Minted)
	expected.Sub(expected, st.Burned)
	if expected.Cmp(total) != 0 {
		return fmt.Errorf("%w: initial+minted-burned is %s, total supply is %s", ErrCorruptSnapshot, expected, total)
	}
	return nil
}

// --- internal ---

// balanceOf must be called with l.mu held.
func (l *Ledger) balanceOf(account common.Address) *big.Int {
	if bal, ok := l.balances[account]; ok {
		return bal
	}
	return zero
}

func (l *Ledger) credit(account common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	bal, ok := l.balances[account]
	if !ok {
		l.balances[account] = new(big.Int).Set(amount)
		return
	}
	bal.Add(bal, amount)
}

func (l *Ledger) debit(account common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	bal := l.balances[account]
	bal.Sub(bal, amount)
}

func (l *Ledger) reject(op string, caller, to common.Address, amount *big.Int, err error) error {
	l.logger.Warn(op+" rejected",
		zap.Stringer("caller", caller),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount),
		zap.String("reason", Reason(err)),
		zap.Error(err),
	)
	return err
}

func (l *Ledger) emit(ev Event) {
	for _, fn := range l.observers {
		fn(ev)
	}
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
