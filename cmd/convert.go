package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> [unit]",
	Short: "Convert between tokens, base units, hex, and bps/percent",
	Long: `Convert between whole tokens (18 decimals) and base units, hex and
decimal, and basis points and percentages.

Units: tokens, units, hex, bps, pct
If no unit is given, 0x values are read as hex, values ending in % as a
percentage, and everything else as whole tokens.

Examples:
  dftcli convert 1.5             # → 1500000000000000000 units
  dftcli convert 27000000000000000000 units
  dftcli convert 0x1a055690d9db80000
  dftcli convert 250 bps         # → 2.50%
  dftcli convert 2.5%            # → 250 bps`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := ""
		if len(args) > 1 {
			unit = args[1]
		}
		title, pairs, err := convert(args[0], unit)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock(title, pairs))
		return nil
	},
}

// convert does the work of convertCmd and returns the rows to display.
func convert(value, unit string) (string, [][2]string, error) {
	value = strings.TrimSpace(value)
	unit = strings.ToLower(unit)

	if unit == "" {
		switch {
		case strings.HasPrefix(strings.ToLower(value), "0x"):
			unit = "hex"
		case strings.HasSuffix(value, "%"):
			unit = "pct"
		default:
			unit = "tokens"
		}
	}

	switch unit {
	case "tokens", "token", "dft":
		v, err := units.ParseUnits(value, ledger.Decimals)
		if err != nil {
			return "", nil, fmt.Errorf("invalid token amount %q: %w", value, err)
		}
		return "Tokens → Base Units", unitPairs(v), nil

	case "units", "unit", "wei":
		v, ok := new(big.Int).SetString(value, 10)
		if !ok || v.Sign() < 0 {
			return "", nil, fmt.Errorf("invalid base-unit amount %q", value)
		}
		return "Base Units → Tokens", unitPairs(v), nil

	case "hex":
		v, ok := new(big.Int).SetString(strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X"), 16)
		if !ok {
			return "", nil, fmt.Errorf("invalid hex value %q", value)
		}
		return "Hex → Decimal", unitPairs(v), nil

	case "bps", "pct", "%":
		in := value
		if unit != "bps" && !strings.HasSuffix(in, "%") {
			in += "%"
		}
		bps, err := units.ParseBps(in)
		if err != nil {
			return "", nil, err
		}
		return "Rate", [][2]string{
			{"Basis points", fmt.Sprintf("%d", bps)},
			{"Percent", units.FormatBps(bps)},
			{"Of 100 tokens", fmtUnits(new(big.Int).Div(
				new(big.Int).Mul(new(big.Int).Mul(big.NewInt(100), units.Pow10(ledger.Decimals)), big.NewInt(int64(bps))),
				big.NewInt(ledger.BpsDenominator),
			))},
		}, nil

	default:
		return "", nil, fmt.Errorf("unknown unit %q: use tokens, units, hex, bps, or pct", unit)
	}
}

func unitPairs(v *big.Int) [][2]string {
	return [][2]string{
		{"Tokens", fmtUnits(v)},
		{"Base units", v.String()},
		{"Hex", "0x" + v.Text(16)},
	}
}
