package models

import (
	"encoding/json"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GasSetting is the parsed form of the --gas directive: either Auto
// (estimate by simulation) or an explicit gas limit.
type GasSetting struct {
	auto  bool
	limit uint64
}

// GasAuto returns the setting that asks the chain client to estimate gas.
func GasAuto() GasSetting { return GasSetting{auto: true} }

// GasExplicit returns a fixed gas limit setting.
func GasExplicit(limit uint64) GasSetting { return GasSetting{limit: limit} }

// IsAuto reports whether gas should be estimated.
func (g GasSetting) IsAuto() bool { return g.auto }

// Limit returns the explicit gas limit. It is zero for Auto.
func (g GasSetting) Limit() uint64 { return g.limit }

// GasPriceSetting is the parsed form of the --gas-prices directive: Auto
// (query the gas price service), an explicit price per gas unit, or none at
// all when only explicit fees are used.
type GasPriceSetting struct {
	auto  bool
	set   bool
	price sdk.DecCoin
}

// GasPriceAuto returns the setting that asks the gas price service for a price.
func GasPriceAuto() GasPriceSetting { return GasPriceSetting{auto: true} }

// GasPriceExplicit returns a fixed gas price setting.
func GasPriceExplicit(price sdk.DecCoin) GasPriceSetting {
	return GasPriceSetting{set: true, price: price}
}

// GasPriceNone returns the setting without any gas price.
func GasPriceNone() GasPriceSetting { return GasPriceSetting{} }

// IsAuto reports whether the price must be fetched.
func (g GasPriceSetting) IsAuto() bool { return g.auto }

// IsSet reports whether an explicit price was given.
func (g GasPriceSetting) IsSet() bool { return g.set }

// Price returns the explicit price. It is the zero DecCoin unless IsSet.
func (g GasPriceSetting) Price() sdk.DecCoin { return g.price }

// GasOptions holds the single fee strategy applied to a transaction.
//
// EstimateGas implies Gas is nil. When Fees is non-empty the chain client
// uses it verbatim and never derives a fee from GasPrice.
type GasOptions struct {
	Fees          sdk.Coins
	EstimateGas   bool
	Gas           *uint64
	GasPrice      *sdk.DecCoin
	GasAdjustment *float64
}

// SignerIdentity is the key material for the sender of one invocation
type SignerIdentity struct {
	PrivKey cryptotypes.PrivKey
	PubKey  cryptotypes.PubKey
	Address string // bech32 account address
}

// ExecuteRequest is a single contract execution
type ExecuteRequest struct {
	Sender   string
	Contract string
	Msg      json.RawMessage
	Funds    sdk.Coins
}

// SubmissionResult is what the chain reported for an included transaction
type SubmissionResult struct {
	TxHash    string
	Height    int64
	GasWanted int64
	GasUsed   int64
	RawLog    string
}
