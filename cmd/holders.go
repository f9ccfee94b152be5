package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/cobra"
)

var holdersLimit int

var holdersCmd = &cobra.Command{
	Use:   "holders",
	Short: "List accounts with a non-zero balance, largest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		holders := s.ledger.Holders()
		if len(holders) == 0 {
			fmt.Println(ui.Info("No holders: the whole supply has been burned."))
			return nil
		}

		total := s.ledger.TotalSupply()
		t := ui.NewTable([]ui.Column{
			{Title: "#", Width: 4, Right: true},
			{Title: "Wallet", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Balance (" + s.symbol() + ")", Width: 28, Right: true},
			{Title: "Share", Width: 8, Right: true},
		})
		shown := holders
		if holdersLimit > 0 && len(shown) > holdersLimit {
			shown = shown[:holdersLimit]
		}
		for i, h := range shown {
			t.AddRow(ui.Row{
				fmt.Sprintf("%d", i+1),
				s.wallets.NameOf(h.Account),
				h.Account.Hex(),
				units.FormatUnits(h.Balance, ledger.Decimals),
				percentOf(h.Balance, total),
			})
		}
		t.Footer = ui.Row{"", "total", "", units.FormatUnits(total, ledger.Decimals), "100.00%"}
		fmt.Println(t.Render())
		if len(shown) < len(holders) {
			fmt.Println(ui.Meta(fmt.Sprintf("%d of %d holder(s) shown", len(shown), len(holders))))
		} else {
			fmt.Println(ui.Meta(fmt.Sprintf("%d holder(s)", len(holders))))
		}
		return nil
	},
}

// percentOf renders part/total as a percentage with two decimals, rounded
// down.
func percentOf(part, total *big.Int) string {
	if total.Sign() == 0 {
		return units.FormatBps(0)
	}
	bps := new(big.Int).Mul(part, big.NewInt(ledger.BpsDenominator))
	bps.Quo(bps, total)
	return units.FormatBps(uint32(bps.Uint64()))
}

func init() {
	holdersCmd.Flags().IntVarP(&holdersLimit, "limit", "n", 0, "show at most n holders (0 = all)")
}
