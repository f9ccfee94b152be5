package config

// Config holds all dftcli configuration. Every field can be overridden by a
// DFTCLI_<KEY> environment variable, e.g. DFTCLI_FEE_RATE_BPS=250.
type Config struct {
	TokenName      string `json:"token_name"      mapstructure:"token_name"`
	TokenSymbol    string `json:"token_symbol"    mapstructure:"token_symbol"`
	InitialSupply  string `json:"initial_supply"  mapstructure:"initial_supply"`  // whole tokens, decimal
	FeeRateBps     uint32 `json:"fee_rate_bps"    mapstructure:"fee_rate_bps"`    // basis points
	BurnRateBps    uint32 `json:"burn_rate_bps"   mapstructure:"burn_rate_bps"`   // basis points
	OwnerWallet    string `json:"owner_wallet"    mapstructure:"owner_wallet"`    // wallet name or address
	FeeBeneficiary string `json:"fee_beneficiary" mapstructure:"fee_beneficiary"` // wallet name or address
	DefaultWallet  string `json:"default_wallet"  mapstructure:"default_wallet"`
	LogLevel       string `json:"log_level"       mapstructure:"log_level"`       // debug | info | warn | error
	WatchInterval  int    `json:"watch_interval"  mapstructure:"watch_interval"`  // seconds
	MetricsAddr    string `json:"metrics_addr"    mapstructure:"metrics_addr"`    // empty disables /metrics

	// internal: config dir path used for Save()
	configDir string
}
