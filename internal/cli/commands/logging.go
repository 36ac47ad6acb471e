package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ccollicutt/chatlens/pkg/config"
)

// LogLevelFlag is the persistent flag selecting the diagnostic log level.
const LogLevelFlag = "log-level"

// NewLogger builds a production zap logger writing to stderr at level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	return zc.Build()
}

// commandLogger returns a logger for cmd. An explicit --log-level wins over
// logging.level from the configuration.
func commandLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if f := cmd.Flag(LogLevelFlag); f != nil && f.Changed {
		level = f.Value.String()
	}
	return NewLogger(level)
}
