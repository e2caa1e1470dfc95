package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"terra-exec/internal/models"
)

// EnvPrefix is the prefix of every environment variable read by terra-exec
const EnvPrefix = "TERRARUST"

// Configuration keys. They double as global flag names.
const (
	KeyLCD            = "lcd"
	KeyRPC            = "rpc"
	KeyFCD            = "fcd"
	KeyChain          = "chain"
	KeyBech32Prefix   = "bech32-prefix"
	KeyCoinType       = "coin-type"
	KeyConfirmTimeout = "confirm-timeout"
	KeyPollInterval   = "poll-interval"
	KeyWallet         = "wallet"
	KeySeed           = "seed"
	KeyKeyringBackend = "keyring-backend"
	KeyKeyringDir     = "keyring-dir"
	KeyFees           = "fees"
	KeyGas            = "gas"
	KeyGasPrices      = "gas-prices"
	KeyGasDenom       = "gas-denom"
	KeyGasAdjustment  = "gas-adjustment"
	KeyExplorerHost   = "explorer-host"
	KeyTestnetMarkers = "testnet-markers"
	KeyLogLevel       = "log-level"
)

// Config holds all configuration for one invocation. It is built once at
// startup and only read afterwards.
type Config struct {
	Chain    ChainConfig
	Fee      FeeConfig
	Wallet   WalletConfig
	Explorer ExplorerConfig
	Log      LogConfig
}

// ChainConfig holds the chain endpoints and address parameters
type ChainConfig struct {
	LCDEndpoint    string // REST/LCD API, used for account queries
	RPCEndpoint    string // CometBFT RPC, used for simulate, broadcast and tx lookups
	FCDEndpoint    string // FCD, only used to fetch gas prices
	ChainID        string
	Bech32Prefix   string
	CoinType       uint32
	ConfirmTimeout time.Duration // how long to wait for inclusion after broadcast
	PollInterval   time.Duration
}

// FeeConfig holds the raw fee directives as given by the operator
type FeeConfig struct {
	Fees          string
	Gas           string
	GasPrices     string
	GasDenom      string
	GasAdjustment float64
}

// WalletConfig selects the wallet keys are read from
type WalletConfig struct {
	Name     string
	Seed     string // optional BIP-39 passphrase
	Backend  string // os, file, keychain, secret-service, kwallet, pass, wincred
	Dir      string // file backend directory
	Password string // file backend password
}

// ExplorerConfig holds the block explorer used to report transactions
type ExplorerConfig struct {
	Host           string
	TestnetMarkers []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string
	Production bool
}

// SetDefaults registers defaults and environment bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLCD, "https://lcd.terra.dev")
	v.SetDefault(KeyRPC, "")
	v.SetDefault(KeyFCD, "https://fcd.terra.dev")
	v.SetDefault(KeyChain, "columbus-5")
	v.SetDefault(KeyBech32Prefix, "terra")
	v.SetDefault(KeyCoinType, 330)
	v.SetDefault(KeyConfirmTimeout, 60*time.Second)
	v.SetDefault(KeyPollInterval, 2*time.Second)
	v.SetDefault(KeyWallet, "default")
	v.SetDefault(KeySeed, "")
	v.SetDefault(KeyKeyringBackend, "os")
	v.SetDefault(KeyKeyringDir, "")
	v.SetDefault(KeyFees, "")
	v.SetDefault(KeyGas, "auto")
	v.SetDefault(KeyGasPrices, "auto")
	v.SetDefault(KeyGasDenom, "ukrw")
	v.SetDefault(KeyGasAdjustment, 1.4)
	v.SetDefault(KeyExplorerHost, "finder.extraterrestrial.money")
	v.SetDefault(KeyTestnetMarkers, []string{"bombay", "pisco"})
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Historical variable names
	_ = v.BindEnv(KeySeed, EnvPrefix+"_SEED_PHRASE")
}

// LoadConfig builds the configuration from v
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Chain: ChainConfig{
			LCDEndpoint:    strings.TrimRight(v.GetString(KeyLCD), "/"),
			RPCEndpoint:    strings.TrimRight(v.GetString(KeyRPC), "/"),
			FCDEndpoint:    strings.TrimRight(v.GetString(KeyFCD), "/"),
			ChainID:        v.GetString(KeyChain),
			Bech32Prefix:   v.GetString(KeyBech32Prefix),
			CoinType:       v.GetUint32(KeyCoinType),
			ConfirmTimeout: v.GetDuration(KeyConfirmTimeout),
			PollInterval:   v.GetDuration(KeyPollInterval),
		},
		Fee: FeeConfig{
			Fees:          v.GetString(KeyFees),
			Gas:           v.GetString(KeyGas),
			GasPrices:     v.GetString(KeyGasPrices),
			GasDenom:      v.GetString(KeyGasDenom),
			GasAdjustment: v.GetFloat64(KeyGasAdjustment),
		},
		Wallet: WalletConfig{
			Name:     v.GetString(KeyWallet),
			Seed:     v.GetString(KeySeed),
			Backend:  v.GetString(KeyKeyringBackend),
			Dir:      v.GetString(KeyKeyringDir),
			Password: os.Getenv(EnvPrefix + "_KEYRING_PASSWORD"),
		},
		Explorer: ExplorerConfig{
			Host:           v.GetString(KeyExplorerHost),
			TestnetMarkers: splitAndTrim(v.GetStringSlice(KeyTestnetMarkers)),
		},
		Log: LogConfig{
			Level:      v.GetString(KeyLogLevel),
			Production: os.Getenv("ENV") == "production",
		},
	}

	if cfg.Chain.RPCEndpoint == "" {
		cfg.Chain.RPCEndpoint = DeriveRPCEndpoint(cfg.Chain.LCDEndpoint)
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.Tag(models.ErrConfig, err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Chain.LCDEndpoint == "" {
		return fmt.Errorf("LCD endpoint is required")
	}

	if c.Chain.ChainID == "" {
		return fmt.Errorf("chain ID is required")
	}

	if c.Chain.Bech32Prefix == "" {
		return fmt.Errorf("bech32 prefix is required")
	}

	if c.Chain.ConfirmTimeout <= 0 {
		return fmt.Errorf("invalid confirm timeout: %s", c.Chain.ConfirmTimeout)
	}

	if c.Chain.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", c.Chain.PollInterval)
	}

	if c.Wallet.Name == "" {
		return fmt.Errorf("wallet name is required")
	}

	if c.Fee.GasAdjustment <= 0 {
		return fmt.Errorf("invalid gas adjustment: %v", c.Fee.GasAdjustment)
	}

	if c.Explorer.Host == "" {
		return fmt.Errorf("explorer host is required")
	}

	return nil
}

// ValidateEndpoints checks the endpoints needed to submit transactions
func (c *ChainConfig) ValidateEndpoints() error {
	if c.LCDEndpoint == "" {
		return fmt.Errorf("LCD endpoint is required")
	}
	if c.RPCEndpoint == "" {
		return fmt.Errorf("RPC endpoint is required (set --%s or %s_RPC)", KeyRPC, EnvPrefix)
	}
	return nil
}

// DeriveRPCEndpoint guesses the CometBFT RPC endpoint served next to lcd:
// port 1317 becomes 26657 and an "lcd." host becomes "rpc.". It returns an
// empty string when neither layout applies.
func DeriveRPCEndpoint(lcd string) string {
	if strings.Contains(lcd, ":1317") {
		return strings.Replace(lcd, ":1317", ":26657", 1)
	}

	u, err := url.Parse(lcd)
	if err != nil || u.Host == "" {
		return ""
	}
	if !strings.HasPrefix(u.Host, "lcd.") {
		return ""
	}
	u.Host = "rpc." + strings.TrimPrefix(u.Host, "lcd.")
	return u.String()
}

// LoadDotEnv copies the variables of a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")

	if err := dv.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, key := range dv.AllKeys() {
		envKey := strings.ToUpper(key)
		if _, set := os.LookupEnv(envKey); set {
			continue
		}
		if err := os.Setenv(envKey, dv.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// splitAndTrim flattens comma-separated entries and drops empty ones
func splitAndTrim(values []string) []string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}
	return parts
}
