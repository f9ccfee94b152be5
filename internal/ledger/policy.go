package ledger

import (
	"fmt"
	"math/big"
)

// BpsDenominator is 100% expressed in basis points.
const BpsDenominator = 10_000

var (
	bpsDenominator = big.NewInt(BpsDenominator)
	zero           = new(big.Int) // never mutated
)

// Policy holds the transfer-time fee and burn rates in basis points.
type Policy struct {
	FeeRateBps  uint32 `json:"fee_rate_bps"`
	BurnRateBps uint32 `json:"burn_rate_bps"`
}

// Validate reports ErrInvalidPolicy when fee + burn exceed 100%.
func (p Policy) Validate() error {
	if uint64(p.FeeRateBps)+uint64(p.BurnRateBps) > BpsDenominator {
		return fmt.Errorf("%w: fee %d bps + burn %d bps", ErrInvalidPolicy, p.FeeRateBps, p.BurnRateBps)
	}
	return nil
}

// Split is the breakdown of a single transfer amount.
type Split struct {
	Amount *big.Int // debited from the sender
	Fee    *big.Int // credited to the fee beneficiary
	Burn   *big.Int // removed from total supply
	Net    *big.Int // credited to the recipient
}

// Split computes the deterministic fee/burn breakdown of amount.
// Both portions are floored; any rounding remainder stays with the recipient.
func (p Policy) Split(amount *big.Int) (Split, error) {
	if amount == nil || amount.Sign() < 0 {
		return Split{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	fee := portion(amount, p.FeeRateBps)
	burn := portion(amount, p.BurnRateBps)
	net := new(big.Int).Sub(amount, fee)
	net.Sub(net, burn)
	return Split{
		Amount: new(big.Int).Set(amount),
		Fee:    fee,
		Burn:   burn,
		Net:    net,
	}, nil
}

// portion returns floor(amount * bps / 10000).
func portion(amount *big.Int, bps uint32) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return out.Quo(out, bpsDenominator)
}
