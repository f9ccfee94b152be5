package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/dftcli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/dftcli/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	logger  = zap.NewNop()
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "dftcli",
	Short: "Deflationary token ledger",
	Long: `dftcli keeps a local ERC-20-style token ledger in which every transfer
pays a fee to a beneficiary and burns a share of the amount.

  Mint as the owner, transfer between wallets, quote the fee/burn split,
  inspect holders and supply, and drive the token through its ABI.

State lives in ~/.dftcli (override with --config or DFTCLI_CONFIG_DIR).
Every config key can be overridden with a DFTCLI_<KEY> environment variable.
Set DFTCLI_KEYRING_PASSWORD to keep keys in an encrypted file instead of
the OS keychain.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		if logger, err = config.NewLogger(level); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync() //nolint:errcheck
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

func init() {
	// DFTCLI_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("DFTCLI_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.dftcli)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		walletCmd,
		balanceCmd,
		supplyCmd,
		holdersCmd,
		mintCmd,
		transferCmd,
		quoteCmd,
		callCmd,
		verifyCmd,
		convertCmd,
		selectorCmd,
		watchCmd,
	)
}
