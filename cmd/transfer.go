package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/cobra"
)

var (
	transferFrom string
	transferYes  bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Send tokens; a fee goes to the beneficiary and a share is burned",
	Long: `Transfer tokens from the --from wallet. The sender is debited the full
amount; the recipient receives the amount minus fee and burn, the fee
beneficiary receives the fee, and the burn leaves the supply.

Both portions are rounded down, so the recipient keeps any remainder.

Examples:
  dftcli transfer alice 30 --from owner
  dftcli transfer treasury 1_000 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		w, err := loadSigningWallet(s.wallets, transferFrom)
		if err != nil {
			return err
		}
		to, err := s.resolve(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		split, err := s.ledger.Quote(amount)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Transfer Preview", splitPairs(s, w.Name, s.label(to), split)))
		if !transferYes && !ui.Confirm("Send transfer?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		// Reload under the lock; another command may have written since the
		// preview.
		if s, err = openWriteSession(); err != nil {
			return err
		}
		defer s.close()
		if split, err = s.ledger.Quote(amount); err != nil {
			return err
		}

		calldata, err := contract.Pack("transfer", to, amount)
		if err != nil {
			return err
		}
		res, err := s.execute(w, calldata)
		if err != nil {
			return err
		}
		if err := s.commit(); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Sent %s to %s", s.amount(split.Net), s.label(to))))
		printLogs(s, res)
		fmt.Println(ui.Meta("Your balance: " + s.amount(s.ledger.BalanceOf(w.Account()))))
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <amount>",
	Short: "Show how a transfer of amount would be split",
	Long: `Compute the fee, burn and net portions of a transfer without moving any
tokens.

Examples:
  dftcli quote 30
  dftcli quote 0.000000000000000999`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		split, err := s.ledger.Quote(amount)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Transfer Quote", splitPairs(s, "", "", split)))
		return nil
	},
}

func splitPairs(s *session, from, to string, sp ledger.Split) [][2]string {
	p := s.ledger.Policy()
	var pairs [][2]string
	if from != "" {
		pairs = append(pairs, [2]string{"From", from})
	}
	if to != "" {
		pairs = append(pairs, [2]string{"To", to})
	}
	return append(pairs,
		[2]string{"Amount", s.amount(sp.Amount)},
		[2]string{"Fee (" + units.FormatBps(p.FeeRateBps) + ")", s.amount(sp.Fee) + " → " + s.label(s.ledger.FeeBeneficiary())},
		[2]string{"Burn (" + units.FormatBps(p.BurnRateBps) + ")", s.amount(sp.Burn)},
		[2]string{"Recipient gets", s.amount(sp.Net)},
	)
}

func fmtUnits(v *big.Int) string {
	return units.FormatUnits(v, ledger.Decimals)
}

func init() {
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "signing wallet (default: default wallet)")
	transferCmd.Flags().BoolVarP(&transferYes, "yes", "y", false, "skip the confirmation prompt")
}
