package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"terra-exec/internal/blockchain/cosmos"
	"terra-exec/internal/models"
)

const (
	// testKeyHex is the key of the LocalTerra test1 account
	testKeyHex     = "da02ede4c818876fe19b5a789f84e8591debd74fd4c134546c9cd7c95e9233a6"
	testKeyAddress = "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v"

	testContract = "terra1ejpjr43ht3y56pplm5pxpusmcrk9rkkvna4tklusnnwdxpqm0zlsz74tve"
	testTxHash   = "9A3C5E1C0E5DBE6E8A2F0B4B1E2A4C7D8F9E0A1B2C3D4E5F60718293A4B5C6D7"
)

func testPrivKey(t *testing.T) cryptotypes.PrivKey {
	t.Helper()
	key, err := hex.DecodeString(testKeyHex)
	if err != nil {
		t.Fatalf("failed to decode test key: %v", err)
	}
	return &secp256k1.PrivKey{Key: key}
}

func testCodec() cosmos.AddressCodec {
	return cosmos.NewAddressCodec(cosmos.TerraBech32Prefix)
}

// countingGasPrices records every query it answers
type countingGasPrices struct {
	price  sdk.DecCoin
	err    error
	calls  int
	denoms []string
}

func (f *countingGasPrices) GasPrice(_ context.Context, denom string) (sdk.DecCoin, error) {
	f.calls++
	f.denoms = append(f.denoms, denom)
	if f.err != nil {
		return sdk.DecCoin{}, f.err
	}
	return f.price, nil
}

type keyRequest struct {
	wallet string
	label  string
	seed   *string
}

// fakeKeys serves fixed keys per "<wallet>/<label>"
type fakeKeys struct {
	keys     map[string]cryptotypes.PrivKey
	err      error
	requests []keyRequest
}

func (f *fakeKeys) PrivateKey(_ context.Context, wallet, label string, seed *string) (cryptotypes.PrivKey, error) {
	f.requests = append(f.requests, keyRequest{wallet: wallet, label: label, seed: seed})
	if f.err != nil {
		return nil, f.err
	}
	key, ok := f.keys[wallet+"/"+label]
	if !ok {
		return nil, fmt.Errorf("no key %s in wallet %s", label, wallet)
	}
	return key, nil
}

// fakeChain records submissions and answers with a fixed result
type fakeChain struct {
	result models.SubmissionResult
	err    error

	calls  int
	signer models.SignerIdentity
	msgs   []sdk.Msg
	memo   string
}

func (f *fakeChain) SubmitTransactionSync(_ context.Context, signer models.SignerIdentity, msgs []sdk.Msg, memo string) (models.SubmissionResult, error) {
	f.calls++
	f.signer = signer
	f.msgs = msgs
	f.memo = memo
	return f.result, f.err
}
