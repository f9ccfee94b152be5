package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/dftcli/internal/contract"
	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/state"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	initForce       bool
	initOwner       string
	initBeneficiary string
	initSupply      string
	initFee         string
	initBurn        string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the token ledger",
	Long: `Create a fresh ledger. The owner receives the whole initial supply and
is the only account allowed to mint. Fees from every transfer go to the
fee beneficiary.

Owner and beneficiary are wallet names or addresses; they default to the
owner_wallet and fee_beneficiary config keys. Rates accept basis points
("500") or percentages ("5%").

Examples:
  dftcli init --owner owner --beneficiary treasury
  dftcli init --owner owner --beneficiary treasury --fee 2.5% --burn 1%
  dftcli init --force   # wipe and recreate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		unlock, err := lockState()
		if err != nil {
			return err
		}
		defer unlock()

		store := state.NewFileStore(cfg.StatePath())
		if store.Exists() && !initForce {
			return fmt.Errorf("ledger already exists at %s (use --force to recreate)", store.Path())
		}
		fmt.Println(ui.Banner())

		if err := applyInitFlags(cmd); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.OwnerWallet == "" || cfg.FeeBeneficiary == "" {
			return errors.New("owner and fee beneficiary are required: pass --owner and --beneficiary")
		}

		mgr := newWalletManager()
		owner, err := mgr.Resolve(cfg.OwnerWallet)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
		beneficiary, err := mgr.Resolve(cfg.FeeBeneficiary)
		if err != nil {
			return fmt.Errorf("fee beneficiary: %w", err)
		}
		supply, err := cfg.InitialSupplyUnits()
		if err != nil {
			return err
		}

		l, err := ledger.New(ledger.Params{
			InitialSupply:  supply,
			Owner:          owner,
			FeeBeneficiary: beneficiary,
			Policy:         cfg.Policy(),
		}, ledger.WithLogger(logger))
		if err != nil {
			return err
		}

		st := &state.State{
			Meta:      state.Meta{Name: cfg.TokenName, Symbol: cfg.TokenSymbol},
			Snapshot:  l.Snapshot(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := store.Save(st); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Info("ledger initialised", zap.String("path", store.Path()))

		tok := contract.NewToken(l, cfg.TokenName, cfg.TokenSymbol)
		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("%s (%s) created", cfg.TokenName, cfg.TokenSymbol), [][2]string{
			{"Token address", tok.Address().Hex()},
			{"Owner", owner.Hex()},
			{"Fee beneficiary", beneficiary.Hex()},
			{"Initial supply", units.FormatUnits(supply, ledger.Decimals) + " " + cfg.TokenSymbol},
			{"Fee rate", units.FormatBps(cfg.FeeRateBps)},
			{"Burn rate", units.FormatBps(cfg.BurnRateBps)},
		}))
		fmt.Println(ui.Hint("Send tokens with: dftcli transfer <to> <amount> --from " + cfg.OwnerWallet))
		return nil
	},
}

// applyInitFlags copies explicitly-set flags into the config so they are
// persisted with it.
func applyInitFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("owner") {
		cfg.OwnerWallet = initOwner
	}
	if f.Changed("beneficiary") {
		cfg.FeeBeneficiary = initBeneficiary
	}
	if f.Changed("supply") {
		cfg.InitialSupply = initSupply
	}
	if f.Changed("fee") {
		bps, err := units.ParseBps(initFee)
		if err != nil {
			return err
		}
		cfg.FeeRateBps = bps
	}
	if f.Changed("burn") {
		bps, err := units.ParseBps(initBurn)
		if err != nil {
			return err
		}
		cfg.BurnRateBps = bps
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing ledger")
	initCmd.Flags().StringVar(&initOwner, "owner", "", "owner wallet name or address")
	initCmd.Flags().StringVar(&initBeneficiary, "beneficiary", "", "fee beneficiary wallet name or address")
	initCmd.Flags().StringVar(&initSupply, "supply", "", "initial supply in whole tokens")
	initCmd.Flags().StringVar(&initFee, "fee", "", "fee rate (bps or %)")
	initCmd.Flags().StringVar(&initBurn, "burn", "", "burn rate (bps or %)")
}
