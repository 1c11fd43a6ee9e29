package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the command-line logger. Only warnings reach stderr unless verbose is
// set; logFile, when given, receives the same entries as JSON.
func New(verbose bool, logFile string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = !verbose
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile == "" {
		return logger, nil
	}

	sink, _, err := zap.Open(logFile)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open log file %s: %w", logFile, err)
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		sink,
		config.Level,
	)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}
