package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"terra-exec/internal/config"
	"terra-exec/internal/models"
	"terra-exec/internal/service"
)

func TestErrorChain(t *testing.T) {
	root := errors.New("connection refused")
	err := fmt.Errorf("failed to query FCD: %w", fmt.Errorf("dial tcp: %w", root))

	assert.Equal(t, []string{
		"failed to query FCD: dial tcp: connection refused",
		"dial tcp: connection refused",
		"connection refused",
	}, ErrorChain(err))

	assert.Nil(t, ErrorChain(nil))
}

func TestErrorChainRegisteredErrors(t *testing.T) {
	err := errorsmod.Wrap(errorsmod.Wrap(models.ErrGasResolution, "no gas price for ukrw"), "resolving fees")

	chain := ErrorChain(err)
	require.GreaterOrEqual(t, len(chain), 2)
	assert.Equal(t, "resolving fees: no gas price for ukrw: gas resolution failed", chain[0])
	assert.Equal(t, "no gas price for ukrw: gas resolution failed", chain[1])
}

func TestErrorChainJoinedCauses(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", errors.New("connection refused"))
	err := models.Wrapf(models.ErrSubmission, cause, "failed to broadcast transaction")

	chain := ErrorChain(err)
	require.GreaterOrEqual(t, len(chain), 4)
	assert.Equal(t, []string{
		"failed to broadcast transaction: dial tcp: connection refused: transaction submission failed",
		"dial tcp: connection refused",
		"connection refused",
		"transaction submission failed",
	}, chain[:4])
	assert.ErrorIs(t, err, models.ErrSubmission)
	assert.ErrorIs(t, err, cause)
}

func TestErrorChainSkipsRepeatedMessages(t *testing.T) {
	root := errors.New("root")
	err := errors.Join(fmt.Errorf("a: %w", root), fmt.Errorf("b: %w", root))

	assert.Equal(t, []string{"a: root\nb: root", "a: root", "root", "b: root"}, ErrorChain(err))
}

func TestReportGasResolutionFailure(t *testing.T) {
	fcdErr := fmt.Errorf("failed to query FCD: %w", errors.New("dial tcp: connection refused"))
	fees := service.NewFeeService(&failingPrices{err: fcdErr}, zap.NewNop())

	d, err := fees.ParseGasDirectives("", "auto", "auto", "ukrw", 1.4)
	require.NoError(t, err)
	_, err = fees.ResolveGasOptions(context.Background(), d)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGasResolution)
	assert.ErrorIs(t, err, fcdErr)

	core, logs := observer.New(zapcore.DebugLevel)
	ReportError(zap.New(core), err)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	require.NotEmpty(t, messages)
	assert.Equal(t, "fetching gas price for ukrw: failed to query FCD: dial tcp: connection refused: gas resolution failed", messages[0])
	assert.Contains(t, messages, "because: failed to query FCD: dial tcp: connection refused")
	assert.Contains(t, messages, "because: dial tcp: connection refused")

	seen := make(map[string]int)
	for _, msg := range messages {
		seen[msg]++
	}
	assert.Equal(t, 1, seen["because: gas resolution failed"])
	for msg, n := range seen {
		assert.Equal(t, 1, n, "message %q reported more than once", msg)
	}
}

type failingPrices struct {
	err error
}

func (f *failingPrices) GasPrice(context.Context, string) (sdk.DecCoin, error) {
	return sdk.DecCoin{}, f.err
}

func TestReportError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	err := fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", errors.New("root")))

	ReportError(zap.New(core), err)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "outer: middle: root", entries[0].Message)
	assert.Equal(t, "because: middle: root", entries[1].Message)
	assert.Equal(t, "because: root", entries[2].Message)
	for _, entry := range entries {
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	}
}

func TestInitLogger(t *testing.T) {
	_, err := initLogger(config.LogConfig{Level: "verbose"}, io.Discard)
	assert.Error(t, err)

	logger, err := initLogger(config.LogConfig{Level: "warn", Production: true}, io.Discard)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
