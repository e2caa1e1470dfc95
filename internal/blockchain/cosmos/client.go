package cosmos

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/x/tx/signing"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/gogoproto/proto"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"terra-exec/internal/config"
	"terra-exec/internal/models"
)

const (
	// simulatePath is the gRPC method served over ABCI query for gas estimation
	simulatePath = "/cosmos.tx.v1beta1.Service/Simulate"

	DefaultPollInterval   = 2 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
)

// RPCClient is the subset of the CometBFT RPC client used for transactions
type RPCClient interface {
	ABCIQuery(ctx context.Context, path string, data cmtbytes.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxSync(ctx context.Context, tx cmttypes.Tx) (*ctypes.ResultBroadcastTx, error)
	Tx(ctx context.Context, hash []byte, prove bool) (*ctypes.ResultTx, error)
}

// Client signs and submits transactions to a Cosmos SDK chain
type Client struct {
	rpcClient    RPCClient
	lcdEndpoint  string
	httpClient   *http.Client
	cdc          codec.Codec
	interfaceReg codectypes.InterfaceRegistry
	txConfig     client.TxConfig
	chainID      string
	gas          models.GasOptions
	pollInterval time.Duration
	confirmAfter time.Duration
	logger       *zap.Logger
}

// NewClient creates a new chain client. gas is the fee strategy applied to
// every transaction it submits.
func NewClient(cfg *config.ChainConfig, gas models.GasOptions, logger *zap.Logger) (*Client, error) {
	rpcClient, err := rpchttp.New(cfg.RPCEndpoint, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	return NewClientWithRPC(cfg, rpcClient, gas, logger)
}

// NewClientWithRPC creates a chain client on top of an existing RPC client
func NewClientWithRPC(cfg *config.ChainConfig, rpcClient RPCClient, gas models.GasOptions, logger *zap.Logger) (*Client, error) {
	if cfg.LCDEndpoint == "" {
		return nil, fmt.Errorf("LCD endpoint cannot be empty")
	}
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain ID cannot be empty")
	}

	// Address codecs are passed explicitly so the global sdk config is left alone
	interfaceRegistry, err := codectypes.NewInterfaceRegistryWithOptions(codectypes.InterfaceRegistryOptions{
		ProtoFiles: proto.HybridResolver,
		SigningOptions: signing.Options{
			AddressCodec:          address.NewBech32Codec(cfg.Bech32Prefix),
			ValidatorAddressCodec: address.NewBech32Codec(cfg.Bech32Prefix + "valoper"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interface registry: %w", err)
	}
	cryptocodec.RegisterInterfaces(interfaceRegistry)
	authtypes.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	wasmtypes.RegisterInterfaces(interfaceRegistry)
	cdc := codec.NewProtoCodec(interfaceRegistry)

	txConfig := authtx.NewTxConfig(cdc, authtx.DefaultSignModes)

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	confirmAfter := cfg.ConfirmTimeout
	if confirmAfter <= 0 {
		confirmAfter = DefaultConfirmTimeout
	}

	logger = logger.Named("chain")
	logger.Debug("Chain client initialized",
		zap.String("chain_id", cfg.ChainID),
		zap.String("rpc_endpoint", cfg.RPCEndpoint),
		zap.String("lcd_endpoint", cfg.LCDEndpoint))

	return &Client{
		rpcClient:    rpcClient,
		lcdEndpoint:  strings.TrimRight(cfg.LCDEndpoint, "/"),
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		cdc:          cdc,
		interfaceReg: interfaceRegistry,
		txConfig:     txConfig,
		chainID:      cfg.ChainID,
		gas:          gas,
		pollInterval: pollInterval,
		confirmAfter: confirmAfter,
		logger:       logger,
	}, nil
}

// ChainID returns the chain ID
func (c *Client) ChainID() string {
	return c.chainID
}

// TxConfig returns the tx encoding configuration
func (c *Client) TxConfig() client.TxConfig {
	return c.txConfig
}

// GetAccountInfo returns account number and sequence for transaction signing
func (c *Client) GetAccountInfo(ctx context.Context, address string) (uint64, uint64, error) {
	url := fmt.Sprintf("%s/cosmos/auth/v1beta1/accounts/%s", c.lcdEndpoint, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query account: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read account response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return 0, 0, fmt.Errorf("account %s not found on chain (is it funded?)", address)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("account query failed with status %d: %s", resp.StatusCode, string(body))
	}

	// Vesting and module accounts nest the base account
	account := gjson.GetBytes(body, "account")
	for _, path := range []string{"base_account", "base_vesting_account.base_account"} {
		if nested := account.Get(path); nested.Exists() {
			account = nested
			break
		}
	}

	accountNum := account.Get("account_number")
	sequence := account.Get("sequence")
	if !accountNum.Exists() {
		return 0, 0, fmt.Errorf("account response has no account number: %s", string(body))
	}

	// Fresh accounts omit the sequence, which then is zero
	return accountNum.Uint(), sequence.Uint(), nil
}

// Simulate runs txBytes against the node and returns the gas it used
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	req := &txtypes.SimulateRequest{TxBytes: txBytes}
	reqBytes, err := req.Marshal()
	if err != nil {
		return 0, fmt.Errorf("failed to marshal simulate request: %w", err)
	}

	res, err := c.rpcClient.ABCIQuery(ctx, simulatePath, reqBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	if res.Response.Code != 0 {
		return 0, fmt.Errorf("simulation failed with code %d: %s", res.Response.Code, res.Response.Log)
	}

	var simRes txtypes.SimulateResponse
	if err := simRes.Unmarshal(res.Response.Value); err != nil {
		return 0, fmt.Errorf("failed to decode simulate response: %w", err)
	}
	if simRes.GasInfo == nil {
		return 0, fmt.Errorf("simulate response has no gas info")
	}

	return simRes.GasInfo.GasUsed, nil
}

// SubmitTransactionSync signs msgs with signer, broadcasts the transaction and
// waits until it is included in a block. The transaction is broadcast at most
// once.
func (c *Client) SubmitTransactionSync(
	ctx context.Context,
	signer models.SignerIdentity,
	msgs []sdk.Msg,
	memo string,
) (models.SubmissionResult, error) {
	accountNum, sequence, err := c.GetAccountInfo(ctx, signer.Address)
	if err != nil {
		return models.SubmissionResult{}, models.Wrapf(models.ErrSubmission, err, "failed to get account info")
	}

	var simulated uint64
	if c.gas.EstimateGas {
		unsigned, err := c.buildTx(signer, msgs, memo, 0, nil, sequence)
		if err != nil {
			return models.SubmissionResult{}, models.Tag(models.ErrSubmission, err)
		}
		txBytes, err := c.txConfig.TxEncoder()(unsigned.GetTx())
		if err != nil {
			return models.SubmissionResult{}, models.Wrapf(models.ErrSubmission, err, "failed to encode transaction")
		}
		simulated, err = c.Simulate(ctx, txBytes)
		if err != nil {
			return models.SubmissionResult{}, models.Tag(models.ErrSubmission, err)
		}
		c.logger.Debug("Simulated transaction", zap.Uint64("gas_used", simulated))
	}

	gasLimit, fee, err := ComputeFee(c.gas, simulated)
	if err != nil {
		return models.SubmissionResult{}, models.Tag(models.ErrSubmission, err)
	}

	txBuilder, err := c.buildTx(signer, msgs, memo, gasLimit, fee, sequence)
	if err != nil {
		return models.SubmissionResult{}, models.Tag(models.ErrSubmission, err)
	}

	if err := c.sign(ctx, txBuilder, signer, accountNum, sequence); err != nil {
		return models.SubmissionResult{}, models.Tag(models.ErrSubmission, err)
	}

	txBytes, err := c.txConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return models.SubmissionResult{}, models.Wrapf(models.ErrSubmission, err, "failed to encode transaction")
	}

	// Broadcast via RPC (sync mode)
	resp, err := c.rpcClient.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return models.SubmissionResult{}, models.Wrapf(models.ErrSubmission, err, "failed to broadcast transaction")
	}

	txHash := strings.ToUpper(hex.EncodeToString(resp.Hash))
	if resp.Code != 0 {
		return models.SubmissionResult{}, errorsmod.Wrapf(models.ErrSubmission,
			"transaction %s rejected with code %d (codespace %s): %s", txHash, resp.Code, resp.Codespace, resp.Log)
	}

	c.logger.Info("Transaction broadcast successfully",
		zap.String("tx_hash", txHash),
		zap.Uint64("account_number", accountNum),
		zap.Uint64("sequence", sequence),
		zap.Uint64("gas_limit", gasLimit),
		zap.String("fee", fee.String()))

	return c.WaitForTx(ctx, txHash, c.confirmAfter)
}

// buildTx assembles an unsigned transaction carrying an empty signature for
// signer, which is enough for simulation and for computing sign bytes.
func (c *Client) buildTx(
	signer models.SignerIdentity,
	msgs []sdk.Msg,
	memo string,
	gasLimit uint64,
	fee sdk.Coins,
	sequence uint64,
) (client.TxBuilder, error) {
	txBuilder := c.txConfig.NewTxBuilder()

	if err := txBuilder.SetMsgs(msgs...); err != nil {
		return nil, fmt.Errorf("failed to set messages: %w", err)
	}

	txBuilder.SetGasLimit(gasLimit)
	txBuilder.SetFeeAmount(fee)
	txBuilder.SetMemo(memo)

	sigV2 := signingtypes.SignatureV2{
		PubKey: signer.PubKey,
		Data: &signingtypes.SingleSignatureData{
			SignMode:  signingtypes.SignMode_SIGN_MODE_DIRECT,
			Signature: nil,
		},
		Sequence: sequence,
	}

	if err := txBuilder.SetSignatures(sigV2); err != nil {
		return nil, fmt.Errorf("failed to set signature placeholder: %w", err)
	}

	return txBuilder, nil
}

// sign replaces the placeholder signature with a SIGN_MODE_DIRECT signature
func (c *Client) sign(
	ctx context.Context,
	txBuilder client.TxBuilder,
	signer models.SignerIdentity,
	accountNum, sequence uint64,
) error {
	signerData := authsigning.SignerData{
		Address:       signer.Address,
		ChainID:       c.chainID,
		AccountNumber: accountNum,
		Sequence:      sequence,
		PubKey:        signer.PubKey,
	}

	signBytes, err := authsigning.GetSignBytesAdapter(
		ctx,
		c.txConfig.SignModeHandler(),
		signingtypes.SignMode_SIGN_MODE_DIRECT,
		signerData,
		txBuilder.GetTx(),
	)
	if err != nil {
		return fmt.Errorf("failed to get sign bytes: %w", err)
	}

	sigBytes, err := signer.PrivKey.Sign(signBytes)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	sigV2 := signingtypes.SignatureV2{
		PubKey: signer.PubKey,
		Data: &signingtypes.SingleSignatureData{
			SignMode:  signingtypes.SignMode_SIGN_MODE_DIRECT,
			Signature: sigBytes,
		},
		Sequence: sequence,
	}

	if err := txBuilder.SetSignatures(sigV2); err != nil {
		return fmt.Errorf("failed to set final signature: %w", err)
	}

	return nil
}

// WaitForTx waits for a transaction to be included in a block. Running out of
// time yields ErrFinalityUnknown together with the hash, since the
// transaction may still be included later.
func (c *Client) WaitForTx(ctx context.Context, txHash string, timeout time.Duration) (models.SubmissionResult, error) {
	pending := models.SubmissionResult{TxHash: txHash}

	hashBytes, err := hex.DecodeString(txHash)
	if err != nil {
		return pending, models.Wrapf(models.ErrSubmission, err, "invalid tx hash")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return pending, errorsmod.Wrapf(models.ErrFinalityUnknown,
				"transaction %s was broadcast but not seen in a block within %s", txHash, timeout)
		case <-ticker.C:
			result, err := c.rpcClient.Tx(ctx, hashBytes, false)
			if err != nil {
				continue // Transaction not found yet
			}

			if result.TxResult.Code != 0 {
				return pending, errorsmod.Wrapf(models.ErrSubmission,
					"transaction %s failed with code %d (codespace %s): %s",
					txHash, result.TxResult.Code, result.TxResult.Codespace, result.TxResult.Log)
			}

			c.logger.Info("Transaction confirmed",
				zap.String("tx_hash", txHash),
				zap.Int64("height", result.Height))

			return models.SubmissionResult{
				TxHash:    txHash,
				Height:    result.Height,
				GasWanted: result.TxResult.GasWanted,
				GasUsed:   result.TxResult.GasUsed,
				RawLog:    result.TxResult.Log,
			}, nil
		}
	}
}
