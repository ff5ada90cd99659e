// Package logger builds the zap logger shared by the binaries.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level       string
	Format      string
	Development bool
}

// New creates a logger writing to stdout. Unknown levels fall back to info
// and any format other than "console" produces JSON.
func New(cfg Config) *zap.Logger {
	return zap.New(newCore(cfg, zapcore.AddSync(os.Stdout)), options(cfg)...)
}

func newCore(cfg Config, out zapcore.WriteSyncer) zapcore.Core {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	return zapcore.NewCore(encoder, out, level)
}

func options(cfg Config) []zap.Option {
	if cfg.Development {
		return []zap.Option{zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	}
	return []zap.Option{zap.AddCaller()}
}
