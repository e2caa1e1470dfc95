package cosmos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tidwall/gjson"
)

// FCDClient queries gas prices from a Terra FCD (full client daemon)
type FCDClient struct {
	apiEndpoint string
	httpClient  *http.Client
}

// NewFCDClient creates a new FCD client
func NewFCDClient(apiEndpoint string) (*FCDClient, error) {
	if apiEndpoint == "" {
		return nil, fmt.Errorf("FCD endpoint cannot be empty")
	}

	return &FCDClient{
		apiEndpoint: strings.TrimRight(apiEndpoint, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// GasPrice returns the price per gas unit for denom
//
// API endpoint: GET {apiEndpoint}/v1/txs/gas_prices
// Response: {"uluna":"0.15","ukrw":"178.05",...}
func (f *FCDClient) GasPrice(ctx context.Context, denom string) (sdk.DecCoin, error) {
	if denom == "" {
		return sdk.DecCoin{}, fmt.Errorf("denom cannot be empty")
	}

	url := fmt.Sprintf("%s/v1/txs/gas_prices", f.apiEndpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("failed to query FCD: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return sdk.DecCoin{}, fmt.Errorf("FCD returned status %d: %s", resp.StatusCode, string(body))
	}

	if !gjson.ValidBytes(body) {
		return sdk.DecCoin{}, fmt.Errorf("FCD returned malformed JSON")
	}

	prices := gjson.ParseBytes(body)
	if !prices.IsObject() {
		return sdk.DecCoin{}, fmt.Errorf("FCD returned %s, want an object of prices", prices.Type)
	}

	price, ok := prices.Map()[denom]
	if !ok {
		return sdk.DecCoin{}, fmt.Errorf("no gas price for %s", denom)
	}

	amount, err := math.LegacyNewDecFromStr(price.String())
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("invalid gas price %q for %s: %w", price.String(), denom, err)
	}
	if !amount.IsPositive() {
		return sdk.DecCoin{}, fmt.Errorf("gas price for %s must be positive, got %s", denom, amount)
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return sdk.DecCoin{}, fmt.Errorf("invalid gas denom: %w", err)
	}

	return sdk.NewDecCoinFromDec(denom, amount), nil
}
