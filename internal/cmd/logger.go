package cmd

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"terra-exec/internal/config"
)

// initLogger builds the logger for cfg. ENV=production switches to JSON
// output; otherwise logs are human readable. Everything goes to w.
func initLogger(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	sink := zapcore.Lock(zapcore.AddSync(w))
	opts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(sink)}

	var encoder zapcore.Encoder
	if cfg.Production {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), opts...), nil
}

func fallbackLogger(w io.Writer) *zap.Logger {
	logger, err := initLogger(config.LogConfig{Level: "info"}, w)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
