package service

import (
	"context"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.uber.org/zap"

	"terra-exec/internal/models"
)

// AutoSentinel is the directive value that selects estimation or a queried price
const AutoSentinel = "auto"

// GasPriceSource returns the current price per gas unit for a denomination
type GasPriceSource interface {
	GasPrice(ctx context.Context, denom string) (sdk.DecCoin, error)
}

// GasDirectives holds the fee related CLI inputs after local parsing
type GasDirectives struct {
	Fees          sdk.Coins
	Gas           models.GasSetting
	GasPrice      models.GasPriceSetting
	GasDenom      string
	GasAdjustment float64
}

// ParseGasSetting converts a --gas value into its tagged form
func ParseGasSetting(s string) (models.GasSetting, error) {
	s = strings.TrimSpace(s)
	if s == AutoSentinel {
		return models.GasAuto(), nil
	}
	limit, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return models.GasSetting{}, errorsmod.Wrapf(models.ErrParse, "gas %q is neither %q nor an unsigned integer", s, AutoSentinel)
	}
	return models.GasExplicit(limit), nil
}

// ParseGasPriceSetting converts a --gas-prices value into its tagged form.
// An empty value means no gas price.
func ParseGasPriceSetting(s string) (models.GasPriceSetting, error) {
	s = strings.TrimSpace(s)
	switch s {
	case AutoSentinel:
		return models.GasPriceAuto(), nil
	case "":
		return models.GasPriceNone(), nil
	}
	price, err := ParseDecCoin(s)
	if err != nil {
		return models.GasPriceSetting{}, errorsmod.Wrap(err, "invalid gas price")
	}
	return models.GasPriceExplicit(price), nil
}

// FeeService resolves the fee strategy of a transaction
type FeeService struct {
	prices GasPriceSource
	logger *zap.Logger
}

// NewFeeService creates a new fee service. prices is only consulted when the
// gas price directive is auto.
func NewFeeService(prices GasPriceSource, logger *zap.Logger) *FeeService {
	return &FeeService{
		prices: prices,
		logger: logger,
	}
}

// ParseGasDirectives parses the raw fee inputs without any network access.
//
// With an auto gas price the fees and gas inputs are not consulted, matching
// the behaviour of the auto strategy which always estimates.
func (s *FeeService) ParseGasDirectives(fees, gas, gasPrice, gasDenom string, gasAdjustment float64) (GasDirectives, error) {
	priceSetting, err := ParseGasPriceSetting(gasPrice)
	if err != nil {
		return GasDirectives{}, err
	}

	d := GasDirectives{
		GasPrice:      priceSetting,
		GasDenom:      gasDenom,
		GasAdjustment: gasAdjustment,
	}

	if priceSetting.IsAuto() {
		if strings.TrimSpace(fees) != "" {
			s.logger.Warn("Ignoring explicit fees because gas prices are auto", zap.String("fees", fees))
		}
		if strings.TrimSpace(gasDenom) == "" {
			return GasDirectives{}, errorsmod.Wrap(models.ErrParse, "gas denomination is required when gas prices are auto")
		}
		d.Gas = models.GasAuto()
		return d, nil
	}

	d.Fees, err = ParseCoins(fees)
	if err != nil {
		return GasDirectives{}, errorsmod.Wrap(err, "invalid fees")
	}

	d.Gas, err = ParseGasSetting(gas)
	if err != nil {
		return GasDirectives{}, err
	}

	return d, nil
}

// ResolveGasOptions produces the single fee strategy for the transaction. An
// auto gas price is fetched from the gas price source; failure there is fatal
// and never falls back to explicit values.
func (s *FeeService) ResolveGasOptions(ctx context.Context, d GasDirectives) (models.GasOptions, error) {
	adjustment := d.GasAdjustment

	if d.GasPrice.IsAuto() {
		if s.prices == nil {
			return models.GasOptions{}, errorsmod.Wrap(models.ErrGasResolution, "no gas price service configured")
		}

		price, err := s.prices.GasPrice(ctx, d.GasDenom)
		if err != nil {
			return models.GasOptions{}, models.Wrapf(models.ErrGasResolution, err, "fetching gas price for %s", d.GasDenom)
		}
		if price.Denom != d.GasDenom || !price.Amount.IsPositive() {
			return models.GasOptions{}, errorsmod.Wrapf(models.ErrGasResolution, "gas price service returned unusable price %s for %s", price, d.GasDenom)
		}

		s.logger.Info("Using gas price", zap.String("gas_price", price.String()))

		return models.GasOptions{
			EstimateGas:   true,
			GasPrice:      &price,
			GasAdjustment: &adjustment,
		}, nil
	}

	opts := models.GasOptions{
		Fees:          d.Fees,
		EstimateGas:   d.Gas.IsAuto(),
		GasAdjustment: &adjustment,
	}
	if !d.Gas.IsAuto() {
		limit := d.Gas.Limit()
		opts.Gas = &limit
	}

	if d.GasPrice.IsSet() {
		price := d.GasPrice.Price()
		opts.GasPrice = &price
		s.logger.Info("Using gas price", zap.String("gas_price", price.String()))
	} else if opts.Fees.Empty() {
		return models.GasOptions{}, errorsmod.Wrap(models.ErrGasResolution, "neither fees nor a gas price are set")
	}

	s.logger.Debug("Resolved gas options",
		zap.String("fees", d.Fees.String()),
		zap.Bool("estimate_gas", opts.EstimateGas),
		zap.Float64("gas_adjustment", adjustment))

	return opts, nil
}
