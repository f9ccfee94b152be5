package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dftcli/internal/state"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	walletKeyFlag string
	walletYes     bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage named ledger accounts",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a named account. With --key the private key is stored in the OS
keychain and the wallet can sign mints and transfers. Without it the wallet
is watch-only: it can receive tokens and be looked up by name.

Examples:
  dftcli wallet add owner --key 0xac0974...
  dftcli wallet add treasury 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if walletKeyFlag != "" {
			// Signing wallet.
			if err := mgr.AddWithKey(name, walletKeyFlag); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
		} else {
			if len(args) < 2 {
				return fmt.Errorf("address required for watch-only wallet\n  Usage: dftcli wallet add <name> <address>\n  Or for signing: dftcli wallet add <name> --key <private-key>")
			}
			if err := mgr.Add(name, args[1]); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(w.Address))))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: dftcli wallet use %s", name)))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a brand-new keypair and store the private key in the OS keychain.

The private key is displayed ONCE immediately after creation.
Re-export later with: dftcli wallet export <name>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		w, hexKey, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  %s  %s\n", ui.Meta("Wallet :"), ui.Val(w.Name))
		fmt.Printf("  %s  %s\n\n", ui.Meta("Address:"), ui.Addr(w.Address))
		fmt.Println(ui.DangerBox(
			ui.Warn("SAVE YOUR PRIVATE KEY: shown only once. Never share it.") + "\n\n" +
				ui.Val(hexKey),
		))
		fmt.Println(ui.Hint("Re-export anytime: dftcli wallet export " + w.Name))
		return nil
	},
}

var walletExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Re-export the private key of a signing wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		fmt.Println(ui.Warn("You are about to reveal a private key. Keep it secret."))
		if !walletYes {
			if input := ui.PromptInput(fmt.Sprintf("Type wallet name %q to confirm", name)); input != name {
				fmt.Println(ui.Err("Name mismatch: export cancelled."))
				return nil
			}
		}

		hexKey, err := newWalletManager().ExportKey(name)
		if err != nil {
			return err
		}
		fmt.Println(ui.DangerBox(ui.Warn("PRIVATE KEY: do not share this with anyone.") + "\n\n" + ui.Val(hexKey)))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets with their balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		wallets := mgr.List()

		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: dftcli wallet add owner --key <private-key>"))
			return nil
		}

		// Balances are shown once the ledger exists.
		s, err := openSession()
		if err != nil && !errors.Is(err, state.ErrNoState) {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 42},
			{Title: "Type", Width: 10},
			{Title: "Role", Width: 11},
			{Title: "Balance", Width: 24, Right: true},
			{Title: "Default", Width: 7},
		})
		for _, w := range wallets {
			def, role, bal := "", "", "-"
			if w.IsDefault {
				def = "✓"
			}
			if s != nil {
				switch w.Account() {
				case s.ledger.Owner():
					role = "owner"
				case s.ledger.FeeBeneficiary():
					role = "beneficiary"
				}
				bal = fmtUnits(s.ledger.BalanceOf(w.Account()))
			}
			t.AddRow(ui.Row{w.Name, w.Address, walletTypeLabel(w.Type), role, bal, def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !walletYes && !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := newWalletManager().SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("This wallet signs transfers when --from is not given."))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for signing wallet (stored in OS keychain)")
	walletRemoveCmd.Flags().BoolVarP(&walletYes, "yes", "y", false, "skip the confirmation prompt")
	walletExportCmd.Flags().BoolVarP(&walletYes, "yes", "y", false, "skip the confirmation prompt")
	walletCmd.AddCommand(walletAddCmd, walletGenerateCmd, walletExportCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	switch t {
	case wallet.TypeSigning:
		return "signing"
	default:
		return t // "watch-only" is already user-friendly
	}
}
