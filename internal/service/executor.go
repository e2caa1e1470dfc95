package service

import (
	"context"
	"encoding/json"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.uber.org/zap"

	"terra-exec/internal/models"
)

// ChainSubmitter signs, broadcasts and waits for inclusion of a transaction.
//
// On ErrFinalityUnknown the returned result still carries the hash of the
// broadcast transaction.
type ChainSubmitter interface {
	SubmitTransactionSync(ctx context.Context, signer models.SignerIdentity, msgs []sdk.Msg, memo string) (models.SubmissionResult, error)
}

// ExplorerConfig selects the explorer link printed for a transaction
type ExplorerConfig struct {
	Host           string
	ChainID        string
	TestnetMarkers []string
}

// ExecuteInput is one contract execution as requested on the command line
type ExecuteInput struct {
	Wallet   string
	Sender   string // account label inside the wallet
	Seed     string
	Contract string
	Payload  json.RawMessage
	Funds    sdk.Coins
}

// Executor drives a contract execution from signer resolution to submission
type Executor struct {
	identity  *IdentityService
	codec     AddressCodec
	chain     ChainSubmitter
	explorer  ExplorerConfig
	clientTag string
	logger    *zap.Logger
}

// NewExecutor creates a new executor
func NewExecutor(
	identity *IdentityService,
	codec AddressCodec,
	chain ChainSubmitter,
	explorer ExplorerConfig,
	clientTag string,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		identity:  identity,
		codec:     codec,
		chain:     chain,
		explorer:  explorer,
		clientTag: clientTag,
		logger:    logger.Named("executor"),
	}
}

// Execute submits the contract execution once and returns the chain result
// together with its explorer link. It never retries: a broadcast whose
// inclusion could not be confirmed is reported as ErrFinalityUnknown, along
// with the link to check it.
func (e *Executor) Execute(ctx context.Context, in ExecuteInput) (models.SubmissionResult, string, error) {
	signer, err := e.identity.ResolveSigner(ctx, in.Wallet, in.Sender, in.Seed)
	if err != nil {
		return models.SubmissionResult{}, "", err
	}

	req, err := BuildExecuteMessage(e.codec, signer.Address, in.Contract, in.Payload, in.Funds)
	if err != nil {
		return models.SubmissionResult{}, "", err
	}

	e.logger.Info("Submitting contract execution",
		zap.String("sender", req.Sender),
		zap.String("contract", req.Contract),
		zap.String("funds", req.Funds.String()))

	result, err := e.chain.SubmitTransactionSync(ctx, signer, []sdk.Msg{ToMsg(req)}, e.clientTag)
	if err != nil {
		if errors.Is(err, models.ErrFinalityUnknown) && result.TxHash != "" {
			return result, e.url(result.TxHash), err
		}
		return models.SubmissionResult{}, "", err
	}

	e.logger.Debug("Transaction included",
		zap.String("tx_hash", result.TxHash),
		zap.Int64("height", result.Height),
		zap.Int64("gas_used", result.GasUsed))

	return result, e.url(result.TxHash), nil
}

func (e *Executor) url(txHash string) string {
	return ExplorerURL(e.explorer.Host, e.explorer.ChainID, e.explorer.TestnetMarkers, txHash)
}
