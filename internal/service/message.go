package service

import (
	"bytes"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"terra-exec/internal/models"
)

// ParsePayload checks that raw is a JSON value and returns it compacted
func ParsePayload(raw string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, models.Wrapf(models.ErrParse, err, "payload is not valid JSON")
	}
	if buf.Len() == 0 {
		return nil, errorsmod.Wrap(models.ErrParse, "payload is empty")
	}
	return json.RawMessage(buf.Bytes()), nil
}

// BuildExecuteMessage assembles the execute request for contract. payload
// must already be valid JSON (see ParsePayload).
func BuildExecuteMessage(codec AddressCodec, sender, contract string, payload json.RawMessage, funds sdk.Coins) (models.ExecuteRequest, error) {
	if err := codec.ValidateAddress(contract); err != nil {
		return models.ExecuteRequest{}, models.Wrapf(models.ErrAddress, err, "contract %q", contract)
	}
	if err := codec.ValidateAddress(sender); err != nil {
		return models.ExecuteRequest{}, models.Wrapf(models.ErrAddress, err, "sender %q", sender)
	}

	return models.ExecuteRequest{
		Sender:   sender,
		Contract: contract,
		Msg:      payload,
		Funds:    funds,
	}, nil
}

// ToMsg converts an execute request into the wasm message. Funds are sorted
// as the chain requires; the request itself keeps the input order.
func ToMsg(req models.ExecuteRequest) sdk.Msg {
	funds := make(sdk.Coins, len(req.Funds))
	copy(funds, req.Funds)

	return &wasmtypes.MsgExecuteContract{
		Sender:   req.Sender,
		Contract: req.Contract,
		Msg:      wasmtypes.RawContractMessage(req.Msg),
		Funds:    funds.Sort(),
	}
}
