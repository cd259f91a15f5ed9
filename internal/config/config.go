package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable, e.g. CALCULATOR_PRECISION.
const Prefix = "CALCULATOR"

// OTelConfig controls OTLP export. Exporter endpoints come from the standard
// OTEL_EXPORTER_OTLP_* variables.
type OTelConfig struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"decimal-calculator"`
}

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Precision is the default number of fractional digits when printing
	// a formatted result.
	Precision int32      `envconfig:"PRECISION" default:"10"`
	OTel      OTelConfig `envconfig:"OTEL"`
	// RunID correlates this invocation with a caller's logs. A time-ordered
	// UUID is generated when empty.
	RunID string `envconfig:"RUN_ID"`
}

// Load reads the optional .env files (the working directory's .env when
// none are given), then fills Config from the environment. Variables already
// set in the process are not overridden by .env files.
func Load(envFiles ...string) (Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if cfg.Precision < 0 {
		return Config{}, fmt.Errorf("%s_PRECISION must not be negative, got %d", Prefix, cfg.Precision)
	}
	return cfg, nil
}

func loadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}
