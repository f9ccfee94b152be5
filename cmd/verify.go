package cmd

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the ledger's accounting invariants",
	Long: `Recompute the ledger's accounting from the state file and check that

  sum of all balances             == total supply
  initial supply + minted − burned == total supply

Exits non-zero when either check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// openSession already rejects a state file whose balances do not add
		// up; this re-checks the restored ledger and shows the figures.
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.ledger.Verify(); err != nil {
			return err
		}

		sum := new(big.Int)
		for _, h := range s.ledger.Holders() {
			sum.Add(sum, h.Balance)
		}
		st := s.ledger.Stats()
		expected := new(big.Int).Add(st.InitialSupply, st.Minted)
		expected.Sub(expected, st.Burned)

		fmt.Println(ui.KeyValueBlock("Ledger Invariants", [][2]string{
			{"Total supply", s.amount(s.ledger.TotalSupply())},
			{"Sum of balances", s.amount(sum)},
			{"Initial+mint−burn", s.amount(expected)},
		}))
		fmt.Println(ui.Success(fmt.Sprintf("Ledger consistent across %d holder(s).", len(s.ledger.Holders()))))
		return nil
	},
}
