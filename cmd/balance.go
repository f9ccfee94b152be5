package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet|address]",
	Short: "Show an account's token balance",
	Long: `Show the balance of a wallet or address. Without an argument the
default wallet is used.

Examples:
  dftcli balance
  dftcli balance treasury
  dftcli balance 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		target := cfg.DefaultWallet
		if len(args) == 1 {
			target = args[0]
		}
		if target == "" {
			if d := s.wallets.Default(); d != nil {
				target = d.Name
			}
		}
		if target == "" {
			return fmt.Errorf("no account given and no default wallet set")
		}

		account, err := s.resolve(target)
		if err != nil {
			return err
		}
		bal := s.ledger.BalanceOf(account)

		fmt.Println(ui.KeyValueBlock("Balance · "+s.label(account), [][2]string{
			{"Address", account.Hex()},
			{"Balance", ui.Amount(fmtUnits(bal), s.symbol())},
			{"Base units", bal.String()},
			{"Share of supply", percentOf(bal, s.ledger.TotalSupply())},
		}))
		return nil
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show total supply, mint and burn counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		st := s.ledger.Stats()
		p := s.ledger.Policy()

		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("%s (%s)", s.state.Meta.Name, s.symbol()), [][2]string{
			{"Token address", s.token.Address().Hex()},
			{"Owner", s.label(s.ledger.Owner()) + "  " + s.ledger.Owner().Hex()},
			{"Fee beneficiary", s.label(s.ledger.FeeBeneficiary()) + "  " + s.ledger.FeeBeneficiary().Hex()},
			{"Fee / burn rate", units.FormatBps(p.FeeRateBps) + " / " + units.FormatBps(p.BurnRateBps)},
			{"Total supply", s.amount(s.ledger.TotalSupply())},
			{"Initial supply", s.amount(st.InitialSupply)},
			{"Minted", s.amount(st.Minted)},
			{"Burned", ui.Burned(s.amount(st.Burned))},
			{"Fees collected", s.amount(st.FeesCollected)},
			{"Mints / transfers", fmt.Sprintf("%d / %d", st.Mints, st.Transfers)},
			{"Last update", s.state.UpdatedAt.Format("2006-01-02 15:04:05 MST")},
		}))
		return nil
	},
}
