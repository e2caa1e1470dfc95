package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.uber.org/zap"

	"terra-exec/internal/cmd"
	"terra-exec/internal/config"
	"terra-exec/internal/models"
	"terra-exec/internal/service"
)

type failingGasPrices struct{}

func (failingGasPrices) GasPrice(_ context.Context, denom string) (sdk.DecCoin, error) {
	return sdk.DecCoin{}, errors.New("no gas price for " + denom)
}

func TestRunExitCodes(t *testing.T) {
	noChain := cmd.WithChainFactory(func(*config.ChainConfig, models.GasOptions, *zap.Logger) (service.ChainSubmitter, error) {
		t.Fatal("no chain client may be created")
		return nil, nil
	})
	noPrices := cmd.WithGasPriceFactory(func(string) (service.GasPriceSource, error) {
		return failingGasPrices{}, nil
	})

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantLogs []string
	}{
		{
			name:     "version",
			args:     []string{"version"},
			wantCode: 0,
			wantOut:  "terra-exec version " + cmd.Version,
		},
		{
			name:     "no gas price",
			args:     []string{"--lcd", "http://localhost:1317", "exec", "--contract", "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v", "--sender", "wallet1", `{}`},
			wantCode: 1,
			wantLogs: []string{"gas resolution failed", "because: "},
		},
		{
			name:     "malformed payload",
			args:     []string{"--lcd", "http://localhost:1317", "exec", "--contract", "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v", "--sender", "wallet1", "{not valid"},
			wantCode: 1,
			wantLogs: []string{"payload is not valid JSON", "because: parse error"},
		},
		{
			name:     "unknown command",
			args:     []string{"launch"},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, strings.NewReader(""), &stdout, &stderr, cmd.WithDotEnv(""), noChain, noPrices)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantOut)
			}
			for _, want := range tt.wantLogs {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr = %q, want it to contain %q", stderr.String(), want)
				}
			}
		})
	}
}
