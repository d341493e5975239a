package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-factorial/conformance"
	"github.com/wippyai/wasm-factorial/errors"
)

const envPrefix = "FACTCHECK_"

// config holds the environment defaults. Command-line flags override them.
type config struct {
	Width       string `env:"WIDTH"       envDefault:"32"`
	From        int64  `env:"FROM"        envDefault:"-3"`
	To          int64  `env:"TO"          envDefault:"40"`
	Parallelism int    `env:"PARALLELISM" envDefault:"4"`
	LogLevel    string `env:"LOG_LEVEL"   envDefault:"info"`
	DevLog      bool   `env:"DEV_LOG"     envDefault:"false"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load environment")
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.From > c.To {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("range is empty: from %d > to %d", c.From, c.To))
	}
	if span := uint64(c.To) - uint64(c.From); span >= conformance.MaxRange {
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("range %d..%d exceeds %d inputs", c.From, c.To, conformance.MaxRange))
	}
	if c.Parallelism < 1 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	return nil
}

// newLogger builds the process logger. Logs go to stderr so they never mix
// with the report.
func newLogger(c config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	zc := zap.NewProductionConfig()
	if c.DevLog {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
