// Package config loads dftcli settings from ~/.dftcli/config.json and the
// environment, and knows where the rest of the CLI's files live.
package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/spf13/viper"
)

const (
	defaultTokenName     = "Deflationary Token"
	defaultTokenSymbol   = "DFT"
	defaultInitialSupply = "1000000000"
	defaultFeeRateBps    = 500
	defaultBurnRateBps   = 500
	defaultLogLevel      = "warn"
	defaultInterval      = 2

	envPrefix = "DFTCLI"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	stateFile   = "ledger.json"
	lockFile    = "ledger.lock"
	keysDir     = "keys"
)

// Load reads config from dir, layering DFTCLI_* environment variables over
// the file and the file over defaults. dir defaults to ~/.dftcli.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".dftcli")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	v := newViper(filepath.Join(dir, configFile))
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Validate checks the token parameters.
func (c *Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if _, err := c.InitialSupplyUnits(); err != nil {
		return err
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be positive, got %d", c.WatchInterval)
	}
	return nil
}

// Policy returns the configured fee and burn rates.
func (c *Config) Policy() ledger.Policy {
	return ledger.Policy{FeeRateBps: c.FeeRateBps, BurnRateBps: c.BurnRateBps}
}

// InitialSupplyUnits converts InitialSupply from whole tokens to base units.
func (c *Config) InitialSupplyUnits() (*big.Int, error) {
	v, err := units.ParseUnits(c.InitialSupply, ledger.Decimals)
	if err != nil {
		return nil, fmt.Errorf("initial_supply: %w", err)
	}
	if v.Cmp(ledger.MaxSupply) > 0 {
		return nil, fmt.Errorf("initial_supply: %w", ledger.ErrSupplyOverflow)
	}
	return v, nil
}

// Interval returns WatchInterval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.WatchInterval) * time.Second
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where wallet metadata is stored.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LockPath is the file locked while a command changes the ledger state.
func (c *Config) LockPath() string {
	return filepath.Join(c.configDir, lockFile)
}

// StatePath is where the ledger state is stored.
func (c *Config) StatePath() string {
	return filepath.Join(c.configDir, stateFile)
}

// KeysDir is the directory for the file keyring fallback.
func (c *Config) KeysDir() string {
	return filepath.Join(c.configDir, keysDir)
}

// --- helpers ---

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("token_name", defaultTokenName)
	v.SetDefault("token_symbol", defaultTokenSymbol)
	v.SetDefault("initial_supply", defaultInitialSupply)
	v.SetDefault("fee_rate_bps", defaultFeeRateBps)
	v.SetDefault("burn_rate_bps", defaultBurnRateBps)
	v.SetDefault("owner_wallet", "")
	v.SetDefault("fee_beneficiary", "")
	v.SetDefault("default_wallet", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("watch_interval", defaultInterval)
	v.SetDefault("metrics_addr", "")
	return v
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
