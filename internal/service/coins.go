package service

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"terra-exec/internal/models"
)

// ParseCoin parses a single "<amount><denom>" string such as "1000uluna".
func ParseCoin(input string) (sdk.Coin, error) {
	amountStr, denom := splitAmountDenom(strings.TrimSpace(input), false)
	if amountStr == "" {
		return sdk.Coin{}, errorsmod.Wrapf(models.ErrParse, "coin %q has no amount", input)
	}
	if err := validateDenom(input, denom); err != nil {
		return sdk.Coin{}, err
	}

	amount, ok := math.NewIntFromString(amountStr)
	if !ok {
		return sdk.Coin{}, errorsmod.Wrapf(models.ErrParse, "coin %q has an amount out of range", input)
	}

	return sdk.Coin{Denom: denom, Amount: amount}, nil
}

// ParseCoins parses a comma-separated list of coins. Segments are trimmed and
// empty segments are skipped, so an empty input returns an empty list. The
// returned coins keep the input order.
func ParseCoins(input string) (sdk.Coins, error) {
	coins := sdk.Coins{}
	seen := make(map[string]struct{})

	for _, segment := range strings.Split(input, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		coin, err := ParseCoin(segment)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "invalid coin %q", segment)
		}
		if _, dup := seen[coin.Denom]; dup {
			return nil, errorsmod.Wrapf(models.ErrParse, "duplicate denomination %q", coin.Denom)
		}
		seen[coin.Denom] = struct{}{}

		coins = append(coins, coin)
	}

	return coins, nil
}

// ParseDecCoin parses a decimal coin such as "0.15uluna". Gas prices use it.
func ParseDecCoin(input string) (sdk.DecCoin, error) {
	amountStr, denom := splitAmountDenom(strings.TrimSpace(input), true)
	if amountStr == "" || strings.Trim(amountStr, ".") == "" {
		return sdk.DecCoin{}, errorsmod.Wrapf(models.ErrParse, "coin %q has no amount", input)
	}
	if err := validateDenom(input, denom); err != nil {
		return sdk.DecCoin{}, err
	}

	amount, err := math.LegacyNewDecFromStr(amountStr)
	if err != nil {
		return sdk.DecCoin{}, models.Wrapf(models.ErrParse, err, "coin %q", input)
	}

	return sdk.DecCoin{Denom: denom, Amount: amount}, nil
}

// splitAmountDenom splits s at the end of its leading numeric run.
func splitAmountDenom(s string, decimal bool) (string, string) {
	i := 0
	dot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if decimal && c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func validateDenom(input, denom string) error {
	if denom == "" {
		return errorsmod.Wrapf(models.ErrParse, "coin %q has no denomination", input)
	}
	// ibc/ and factory/ denoms carry upper case hashes
	if !strings.Contains(denom, "/") && denom != strings.ToLower(denom) {
		return errorsmod.Wrapf(models.ErrParse, "coin %q: denomination must be lowercase", input)
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return models.Wrapf(models.ErrParse, err, "coin %q", input)
	}
	return nil
}
