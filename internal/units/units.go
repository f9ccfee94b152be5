// Package units converts between human-readable token amounts and integer
// base units, and between percentages and basis points. All conversions are
// exact; no floating point is involved.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for unparseable or out-of-range input.
var ErrInvalidAmount = errors.New("invalid amount")

// Pow10 returns 10^n.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ParseUnits parses a decimal string such as "1.5" or "1_000_000" into base
// units with the given number of decimals. Negative values, exponents, and
// more fractional digits than decimals are rejected.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" || clean == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, _ := strings.Cut(clean, ".")
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// MustParseUnits is ParseUnits for constants; it panics on error.
func MustParseUnits(s string, decimals uint8) *big.Int {
	v, err := ParseUnits(s, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatUnits renders base units as a decimal string, trimming trailing
// fractional zeros: 1500000000000000000 with 18 decimals → "1.5".
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	s := new(big.Int).Abs(v).String()
	if decimals > 0 {
		if len(s) <= int(decimals) {
			s = strings.Repeat("0", int(decimals)-len(s)+1) + s
		}
		cut := len(s) - int(decimals)
		whole, frac := s[:cut], strings.TrimRight(s[cut:], "0")
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ParseBps accepts either a basis-point integer ("500") or a percentage with
// a % suffix ("5%", "2.5%", "0.01%").
func ParseBps(s string) (uint32, error) {
	clean := strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(clean, "%"); ok {
		v, err := ParseUnits(pct, 2)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", s)
		}
		if !v.IsUint64() || v.Uint64() > 10_000 {
			return 0, fmt.Errorf("percentage %q exceeds 100%%", s)
		}
		return uint32(v.Uint64()), nil
	}
	v, err := strconv.ParseUint(clean, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid basis points %q: %w", s, err)
	}
	return uint32(v), nil
}

// FormatBps renders basis points as a percentage: 500 → "5.00%".
func FormatBps(bps uint32) string {
	return fmt.Sprintf("%d.%02d%%", bps/100, bps%100)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
