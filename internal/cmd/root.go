package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"terra-exec/internal/blockchain/cosmos"
	"terra-exec/internal/config"
	"terra-exec/internal/models"
	"terra-exec/internal/service"
	"terra-exec/internal/wallet"
)

// ChainFactory creates the chain client for one invocation
type ChainFactory func(cfg *config.ChainConfig, gas models.GasOptions, logger *zap.Logger) (service.ChainSubmitter, error)

// GasPriceFactory creates the gas price source for an FCD endpoint
type GasPriceFactory func(endpoint string) (service.GasPriceSource, error)

// App carries everything a single invocation needs. Nothing is kept in
// package state so tests can run several apps side by side.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v       *viper.Viper
	cfg     *config.Config
	logger  *zap.Logger
	wallets *wallet.Manager

	newChain     ChainFactory
	newGasPrices GasPriceFactory
	dotEnvPath   string
}

// Option customizes an App
type Option func(*App)

// WithLogger makes the app use logger instead of building one from config
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithWallets makes the app read keys from m
func WithWallets(m *wallet.Manager) Option {
	return func(a *App) { a.wallets = m }
}

// WithChainFactory replaces the CometBFT backed chain client
func WithChainFactory(f ChainFactory) Option {
	return func(a *App) { a.newChain = f }
}

// WithGasPriceFactory replaces the FCD gas price client
func WithGasPriceFactory(f GasPriceFactory) Option {
	return func(a *App) { a.newGasPrices = f }
}

// WithDotEnv sets the dotenv file read at startup. An empty path disables it.
func WithDotEnv(path string) Option {
	return func(a *App) { a.dotEnvPath = path }
}

// NewApp creates an app writing results to stdout and logs to stderr
func NewApp(stdin io.Reader, stdout, stderr io.Writer, opts ...Option) *App {
	a := &App{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		v:          viper.New(),
		dotEnvPath: ".env",
		newChain: func(cfg *config.ChainConfig, gas models.GasOptions, logger *zap.Logger) (service.ChainSubmitter, error) {
			return cosmos.NewClient(cfg, gas, logger)
		},
		newGasPrices: func(endpoint string) (service.GasPriceSource, error) {
			return cosmos.NewFCDClient(endpoint)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger returns the app logger. Before configuration is loaded it is a
// development logger on stderr.
func (a *App) Logger() *zap.Logger {
	if a.logger == nil {
		a.logger = fallbackLogger(a.stderr)
	}
	return a.logger
}

// Execute runs the command line args under ctx
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "terra-exec",
		Short: "Execute CosmWasm contracts on Terra",
		Long: `terra-exec signs and submits a single MsgExecuteContract transaction.

Fees are either given explicitly or derived from the gas price published by
the FCD. Keys are read from a named wallet in the system keyring. Every flag
can also be set with a TERRARUST_ prefixed environment variable or in a .env
file in the working directory.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyLCD, "https://lcd.terra.dev", "LCD endpoint; https://lcd.terra.dev is main-net")
	flags.String(config.KeyRPC, "", "CometBFT RPC endpoint (default: derived from the LCD, port 1317 becomes 26657 and an lcd. host becomes rpc.)")
	flags.String(config.KeyFCD, "https://fcd.terra.dev", "FCD endpoint, currently only used to fetch gas prices")
	flags.String(config.KeyChain, "columbus-5", "chain id; bombay-12 is testnet, columbus-5 is main-net")
	flags.String(config.KeyWallet, "default", "the wallet to look for keys in")
	flags.String(config.KeySeed, "", "the BIP-39 passphrase used with the stored mnemonic")
	flags.String(config.KeyFees, "", "the fees to use, e.g. 1000uluna. Overrides the gas price if set")
	flags.String(config.KeyGas, "auto", "the gas limit; 'auto' to estimate")
	flags.String(config.KeyGasPrices, "auto", "the gas price used to calculate the fee, e.g. 0.15uluna; 'auto' to ask the FCD")
	flags.String(config.KeyGasDenom, "ukrw", "the denomination to pay fees in when the gas price is auto")
	flags.Float64(config.KeyGasAdjustment, 1.4, "multiplier applied to the simulated gas")
	flags.String(config.KeyBech32Prefix, cosmos.TerraBech32Prefix, "bech32 prefix of account addresses")
	flags.Uint32(config.KeyCoinType, cosmos.TerraCoinType, "SLIP-44 coin type used for key derivation")
	flags.String(config.KeyKeyringBackend, "os", "keyring backend: os, file, keychain, secret-service, kwallet, pass, wincred, keyctl")
	flags.String(config.KeyKeyringDir, "", "directory of the file keyring backend")
	flags.String(config.KeyExplorerHost, "finder.extraterrestrial.money", "block explorer host used for transaction links")
	flags.StringSlice(config.KeyTestnetMarkers, service.DefaultTestnetMarkers, "chain id substrings that mark a test network")
	flags.Duration(config.KeyConfirmTimeout, cosmos.DefaultConfirmTimeout, "how long to wait for the transaction to be included")
	flags.Duration(config.KeyPollInterval, cosmos.DefaultPollInterval, "how often to poll for the transaction")
	flags.String(config.KeyLogLevel, "info", "log level: debug, info, warn, error")

	config.SetDefaults(a.v)
	flags.VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})

	root.AddCommand(
		a.execCmd(),
		a.keysCmd(),
		versionCmd(),
	)

	return root
}

func (a *App) loadConfig() error {
	if a.dotEnvPath != "" {
		if err := config.LoadDotEnv(a.dotEnvPath); err != nil {
			return fmt.Errorf("failed to load %s: %w", a.dotEnvPath, err)
		}
	}

	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := initLogger(cfg.Log, a.stderr)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	a.logger.Debug("Configuration loaded",
		zap.String("lcd", cfg.Chain.LCDEndpoint),
		zap.String("rpc", cfg.Chain.RPCEndpoint),
		zap.String("chain_id", cfg.Chain.ChainID),
		zap.String("wallet", cfg.Wallet.Name),
		zap.Duration("confirm_timeout", cfg.Chain.ConfirmTimeout))

	return nil
}

func (a *App) walletManager() *wallet.Manager {
	if a.wallets == nil {
		a.wallets = wallet.NewManager(wallet.Options{
			Backend:  a.cfg.Wallet.Backend,
			Dir:      a.cfg.Wallet.Dir,
			Password: a.cfg.Wallet.Password,
			CoinType: a.cfg.Chain.CoinType,
		})
	}
	return a.wallets
}

func (a *App) codec() cosmos.AddressCodec {
	return cosmos.NewAddressCodec(a.cfg.Chain.Bech32Prefix)
}
