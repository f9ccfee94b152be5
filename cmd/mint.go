package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/spf13/cobra"
)

var mintFrom string

var mintCmd = &cobra.Command{
	Use:   "mint <to> <amount>",
	Short: "Mint new tokens (owner only)",
	Long: `Create new tokens and credit them to an account. The call is signed by
the --from wallet and fails with "Ownable: caller is not the owner" unless
that wallet is the ledger owner. Minting takes no fee and burns nothing.

Examples:
  dftcli mint alice 5000 --from owner
  dftcli mint 0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC 0.25`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openWriteSession()
		if err != nil {
			return err
		}
		defer s.close()
		from := mintFrom
		if from == "" {
			from = cfg.OwnerWallet
		}
		w, err := loadSigningWallet(s.wallets, from)
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

		calldata, err := contract.Pack("mint", to, amount)
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

		fmt.Println(ui.Success(fmt.Sprintf("Minted %s to %s", s.amount(amount), s.label(to))))
		printLogs(s, res)
		fmt.Println(ui.Meta("Total supply: " + s.amount(s.ledger.TotalSupply())))
		return nil
	},
}

// printLogs renders the Transfer logs of a call.
func printLogs(s *session, res *contract.Result) {
	if len(res.Logs) == 0 {
		return
	}
	t := ui.NewTable([]ui.Column{
		{Title: "Event", Width: 9},
		{Title: "From", Width: 14},
		{Title: "To", Width: 14},
		{Title: "Value (" + s.symbol() + ")", Width: 28, Right: true},
	})
	for _, l := range res.Logs {
		ev, err := contract.DecodeTransfer(l)
		if err != nil {
			continue
		}
		t.AddRow(ui.Row{"Transfer", s.label(ev.From), s.label(ev.To), fmtUnits(ev.Value)})
	}
	fmt.Println(t.Render())
}

func init() {
	mintCmd.Flags().StringVar(&mintFrom, "from", "", "signing wallet (default: owner_wallet)")
}
