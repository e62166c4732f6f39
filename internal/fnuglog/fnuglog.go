// Package fnuglog builds the zap logger used across fnug from the
// FNUG_LOG_LEVEL environment variable and the --verbose/--quiet/--log-file
// CLI flags.
package fnuglog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the process-wide logger is built.
type Options struct {
	Verbose bool
	Quiet   bool
	LogFile string
}

// levelFromEnv maps FNUG_LOG_LEVEL onto a zapcore.Level. CRITICAL has no
// direct zap equivalent; it is treated as Error so it never os.Exits the
// process the way zap's Fatal level does for a recoverable condition.
func levelFromEnv() (zapcore.Level, bool) {
	switch strings.ToUpper(os.Getenv("FNUG_LOG_LEVEL")) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO":
		return zapcore.InfoLevel, true
	case "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR", "CRITICAL":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// New builds a *zap.Logger honoring FNUG_LOG_LEVEL and the CLI flags.
// Flags take precedence over the environment variable when both are set.
func New(opts Options) (*zap.Logger, error) {
	level, envSet := levelFromEnv()
	switch {
	case opts.Quiet:
		level = zapcore.ErrorLevel
	case opts.Verbose:
		level = zapcore.DebugLevel
	case !envSet:
		level = zapcore.WarnLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.TimeKey = "" // the TUI owns the screen; keep lines short

	if opts.LogFile != "" {
		cfg.OutputPaths = []string{opts.LogFile}
		cfg.ErrorOutputPaths = []string{opts.LogFile}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	return cfg.Build()
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
