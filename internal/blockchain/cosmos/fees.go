package cosmos

import (
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"terra-exec/internal/models"
)

// ComputeFee returns the gas limit and fee for a transaction under opts.
// simulated is the gas used by a simulation and is only read when opts asks
// for estimation.
//
// Explicit fees always win: they are used as given and the gas price is
// ignored. Otherwise the fee is ceil(gasLimit * gasPrice).
func ComputeFee(opts models.GasOptions, simulated uint64) (uint64, sdk.Coins, error) {
	var gasLimit uint64

	switch {
	case opts.Gas != nil:
		gasLimit = *opts.Gas
	case opts.EstimateGas:
		adjustment := 1.0
		if opts.GasAdjustment != nil {
			adjustment = *opts.GasAdjustment
		}
		if adjustment <= 0 {
			return 0, nil, fmt.Errorf("invalid gas adjustment %v", adjustment)
		}
		gasLimit = uint64(math.Ceil(float64(simulated) * adjustment))
	default:
		return 0, nil, fmt.Errorf("no gas limit given and estimation disabled")
	}

	if gasLimit == 0 {
		return 0, nil, fmt.Errorf("gas limit cannot be zero")
	}

	if !opts.Fees.Empty() {
		// The ante handler only accepts fees sorted by denom
		fees := make(sdk.Coins, len(opts.Fees))
		copy(fees, opts.Fees)
		fees = fees.Sort()
		if err := fees.Validate(); err != nil {
			return 0, nil, fmt.Errorf("invalid fees %s: %w", fees, err)
		}
		return gasLimit, fees, nil
	}

	if opts.GasPrice == nil {
		return 0, nil, fmt.Errorf("neither fees nor a gas price are set")
	}

	gas := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(gasLimit))
	amount := opts.GasPrice.Amount.Mul(gas).Ceil().TruncateInt()

	return gasLimit, sdk.NewCoins(sdk.NewCoin(opts.GasPrice.Denom, amount)), nil
}
