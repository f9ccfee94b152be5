package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairValue(t *testing.T, pairs [][2]string, key string) string {
	t.Helper()
	for _, p := range pairs {
		if p[0] == key {
			return p[1]
		}
	}
	t.Fatalf("no %q row in %v", key, pairs)
	return ""
}

func TestConvertTokensToUnits(t *testing.T) {
	_, pairs, err := convert("1.5", "")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", pairValue(t, pairs, "Base units"))
	assert.Equal(t, "0x14d1120d7b160000", pairValue(t, pairs, "Hex"))
}

func TestConvertUnitsToTokens(t *testing.T) {
	_, pairs, err := convert("27000000000000000000", "units")
	require.NoError(t, err)
	assert.Equal(t, "27", pairValue(t, pairs, "Tokens"))
}

func TestConvertOneUnit(t *testing.T) {
	_, pairs, err := convert("1", "wei")
	require.NoError(t, err)
	assert.Equal(t, "0.000000000000000001", pairValue(t, pairs, "Tokens"))
}

func TestConvertHexAutoDetect(t *testing.T) {
	title, pairs, err := convert("0xff", "")
	require.NoError(t, err)
	assert.Equal(t, "Hex → Decimal", title)
	assert.Equal(t, "255", pairValue(t, pairs, "Base units"))
}

func TestConvertBps(t *testing.T) {
	_, pairs, err := convert("250", "bps")
	require.NoError(t, err)
	assert.Equal(t, "2.50%", pairValue(t, pairs, "Percent"))
	assert.Equal(t, "2.5", pairValue(t, pairs, "Of 100 tokens"))
}

func TestConvertPercentAutoDetect(t *testing.T) {
	_, pairs, err := convert("5%", "")
	require.NoError(t, err)
	assert.Equal(t, "500", pairValue(t, pairs, "Basis points"))

	_, pairs, err = convert("0.01", "pct")
	require.NoError(t, err)
	assert.Equal(t, "1", pairValue(t, pairs, "Basis points"))
}

func TestConvertErrors(t *testing.T) {
	for _, c := range [][2]string{
		{"abc", ""},
		{"-1", "tokens"},
		{"-1", "units"},
		{"0xzz", ""},
		{"150%", ""},
		{"1", "furlongs"},
		{"0.0000000000000000001", "tokens"},
	} {
		_, _, err := convert(c[0], c[1])
		assert.Error(t, err, "convert(%q, %q)", c[0], c[1])
	}
}
