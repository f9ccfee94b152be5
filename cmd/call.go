package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var (
	callFrom    string
	callRawData bool
)

var callCmd = &cobra.Command{
	Use:   "call <method> [args...]",
	Short: "Call a token ABI method directly",
	Long: `Encode a call against the token ABI and execute it. View methods run
unsigned. Write methods (mint, transfer) are signed by the --from wallet
and integer arguments are base units, not whole tokens.

Addresses may be wallet names. Use --data to also print the raw calldata
and return data. Run 'dftcli selector' to list the methods.

Examples:
  dftcli call totalSupply
  dftcli call balanceOf alice
  dftcli call transfer alice 30000000000000000000 --from owner
  dftcli call mint alice 0x3e8 --from owner --data`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := args[0]
		open := openWriteSession
		if contract.IsRead(method) {
			open = openSession
		}
		s, err := open()
		if err != nil {
			return err
		}
		defer s.close()

		calldata, err := contract.EncodeCall(method, args[1:], s.resolve)
		if err != nil {
			return err
		}
		sig, _ := contract.Signature(method)

		var res *contract.Result
		if contract.IsRead(method) {
			res, err = s.token.Call(common.Address{}, calldata)
		} else {
			w, werr := loadSigningWallet(s.wallets, callFrom)
			if werr != nil {
				return werr
			}
			res, err = s.execute(w, calldata)
			if err == nil {
				err = s.commit()
			}
		}

		if callRawData {
			fmt.Println(ui.Meta("calldata: " + hexutil.Encode(calldata)))
		}
		if err != nil {
			var rev *contract.RevertError
			if errors.As(err, &rev) && callRawData {
				data := rev.Data()
				fmt.Println(ui.Meta("revert:   " + hexutil.Encode(data)))
				if reason, derr := contract.DecodeRevert(data); derr == nil {
					fmt.Println(ui.Meta("reason:   " + reason))
				}
			}
			return err
		}
		if callRawData {
			fmt.Println(ui.Meta("return:   " + hexutil.Encode(res.ReturnData)))
		}

		out, err := contract.DecodeOutputs(method, res.ReturnData)
		if err != nil {
			return err
		}
		pairs := [][2]string{{"Method", sig}}
		for i, v := range out {
			pairs = append(pairs, [2]string{fmt.Sprintf("Output %d", i), v})
		}
		if len(out) == 0 {
			pairs = append(pairs, [2]string{"Output", "(none)"})
		}
		fmt.Println(ui.KeyValueBlock("Call Result", pairs))
		printLogs(s, res)
		return nil
	},
}

func init() {
	callCmd.Flags().StringVar(&callFrom, "from", "", "signing wallet for write methods")
	callCmd.Flags().BoolVar(&callRawData, "data", false, "print raw calldata, return data and revert data")
}
