package cmd

import (
	"errors"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terra-exec/internal/models"
	"terra-exec/internal/service"
)

const (
	keyContract = "contract"
	keySender   = "sender"
	keyCoins    = "coins"
)

func (a *App) execCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <json>",
		Short: "Execute a smart contract",
		Long: `Execute sends a single MsgExecuteContract carrying <json> to --contract,
signed by the --sender account of the selected wallet, and prints the explorer
link of the transaction once it is included in a block.

Transactions are simulated and broadcast over CometBFT RPC. Unless --rpc is
set, the RPC endpoint is derived from --lcd (https://lcd.terra.dev uses
https://rpc.terra.dev, host:1317 uses host:26657); any other LCD needs --rpc.`,
		Example: `  terra-exec exec --contract terra1... --sender alice '{"increment":{}}'
  terra-exec --gas-prices 0.15uluna exec --contract terra1... --sender alice --coins 1000uluna '{"deposit":{}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExec(cmd, args[0])
		},
	}

	cmd.Flags().String(keyContract, "", "the contract to execute")
	cmd.Flags().String(keySender, "", "the sender account label in the wallet")
	cmd.Flags().String(keyCoins, "", "coins sent along with the message, e.g. 1000uluna,5ukrw")
	_ = a.v.BindPFlag(keyContract, cmd.Flags().Lookup(keyContract))
	_ = a.v.BindPFlag(keySender, cmd.Flags().Lookup(keySender))

	return cmd
}

func (a *App) runExec(cmd *cobra.Command, rawJSON string) error {
	ctx := cmd.Context()
	cfg := a.cfg
	logger := a.Logger()

	contract := a.v.GetString(keyContract)
	sender := a.v.GetString(keySender)
	if contract == "" {
		return errorsmod.Wrapf(models.ErrConfig, "--%s is required", keyContract)
	}
	if sender == "" {
		return errorsmod.Wrapf(models.ErrConfig, "--%s is required", keySender)
	}
	if err := cfg.Chain.ValidateEndpoints(); err != nil {
		return models.Tag(models.ErrConfig, err)
	}

	// Local validation first so bad input never costs a network round trip
	payload, err := service.ParsePayload(rawJSON)
	if err != nil {
		return err
	}

	coins, _ := cmd.Flags().GetString(keyCoins)
	funds, err := service.ParseCoins(coins)
	if err != nil {
		return errorsmod.Wrap(err, "invalid --coins")
	}

	var prices service.GasPriceSource
	if strings.TrimSpace(cfg.Fee.GasPrices) == service.AutoSentinel {
		prices, err = a.newGasPrices(cfg.Chain.FCDEndpoint)
		if err != nil {
			return models.Tag(models.ErrGasResolution, err)
		}
	}
	fees := service.NewFeeService(prices, logger.Named("fees"))

	directives, err := fees.ParseGasDirectives(cfg.Fee.Fees, cfg.Fee.Gas, cfg.Fee.GasPrices, cfg.Fee.GasDenom, cfg.Fee.GasAdjustment)
	if err != nil {
		return err
	}

	gasOpts, err := fees.ResolveGasOptions(ctx, directives)
	if err != nil {
		return err
	}

	chain, err := a.newChain(&cfg.Chain, gasOpts, logger)
	if err != nil {
		return fmt.Errorf("failed to create chain client: %w", err)
	}

	codec := a.codec()
	identity := service.NewIdentityService(a.walletManager(), codec, logger.Named("identity"))
	executor := service.NewExecutor(identity, codec, chain, service.ExplorerConfig{
		Host:           cfg.Explorer.Host,
		ChainID:        cfg.Chain.ChainID,
		TestnetMarkers: cfg.Explorer.TestnetMarkers,
	}, ClientTag(), logger)

	result, url, err := executor.Execute(ctx, service.ExecuteInput{
		Wallet:   cfg.Wallet.Name,
		Sender:   sender,
		Seed:     cfg.Wallet.Seed,
		Contract: contract,
		Payload:  payload,
		Funds:    funds,
	})
	if err != nil {
		if errors.Is(err, models.ErrFinalityUnknown) && url != "" {
			logger.Warn("Transaction was broadcast but its inclusion is unconfirmed",
				zap.String("tx_hash", result.TxHash))
			color.New(color.FgYellow).Fprintf(a.stderr, "Transaction not confirmed yet, check %s\n", url)
		}
		return err
	}

	logger.Debug("Transaction result",
		zap.String("tx_hash", result.TxHash),
		zap.Int64("gas_wanted", result.GasWanted),
		zap.Int64("gas_used", result.GasUsed))

	fmt.Fprintln(a.stdout, url)
	return nil
}
