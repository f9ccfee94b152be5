package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"zero", Policy{}, false},
		{"five and five", Policy{FeeRateBps: 500, BurnRateBps: 500}, false},
		{"exactly 100%", Policy{FeeRateBps: 10_000}, false},
		{"over 100%", Policy{FeeRateBps: 10_000, BurnRateBps: 1}, true},
		{"huge values do not wrap", Policy{FeeRateBps: ^uint32(0), BurnRateBps: 1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitFloorsBothPortions(t *testing.T) {
	p := Policy{FeeRateBps: 333, BurnRateBps: 1}

	s, err := p.Split(big.NewInt(10_001))
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(333), s.Fee)  // 3330333/10000
	assert.Equal(t, big.NewInt(1), s.Burn)   // 10001/10000
	assert.Equal(t, big.NewInt(9667), s.Net) // remainder goes to the recipient
	assert.Equal(t, big.NewInt(10_001), s.Amount)
}

func TestSplitSmallAmountsRoundToZero(t *testing.T) {
	p := Policy{FeeRateBps: 500, BurnRateBps: 500}
	s, err := p.Split(big.NewInt(19))
	require.NoError(t, err)
	assert.Zero(t, s.Fee.Sign())
	assert.Zero(t, s.Burn.Sign())
	assert.Equal(t, big.NewInt(19), s.Net)
}

func TestSplitIsExactForHugeAmounts(t *testing.T) {
	p := Policy{FeeRateBps: 500, BurnRateBps: 500}
	huge := new(big.Int).Lsh(big.NewInt(1), 300)

	s, err := p.Split(huge)
	require.NoError(t, err)

	sum := new(big.Int).Add(s.Fee, s.Burn)
	sum.Add(sum, s.Net)
	assert.Equal(t, 0, sum.Cmp(huge))
}

func TestSplitDoesNotAliasInput(t *testing.T) {
	p := Policy{}
	amount := big.NewInt(42)
	s, err := p.Split(amount)
	require.NoError(t, err)
	amount.SetInt64(0)
	assert.Equal(t, big.NewInt(42), s.Amount)
	assert.Equal(t, big.NewInt(42), s.Net)
}

func TestSplitRejectsNegative(t *testing.T) {
	_, err := Policy{}.Split(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
