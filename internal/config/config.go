package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/noxss/roster-migrate/internal/apperror"
	"github.com/noxss/roster-migrate/internal/validator"
)

// DefaultDataPath is where the school app keeps its roster document.
const DefaultDataPath = "/storage/emulated/0/DEV/GeminiCLI/noxss-school/data/database_alunos.json"

// ID strategies accepted in ID_STRATEGY.
const (
	IDStrategyRandom        = "random"
	IDStrategyDeterministic = "deterministic"
)

// Config holds all migration configuration.
type Config struct {
	DataPath   string `json:"DATA_PATH" validate:"required"`
	LogLevel   string `json:"LOG_LEVEL" validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	LogFormat  string `json:"LOG_FORMAT" validate:"required,oneof=auto pretty json"`
	IDStrategy string `json:"ID_STRATEGY" validate:"required,oneof=random deterministic"`
	// DryRun runs the whole pass and reports, but never writes the file.
	DryRun bool `json:"DRY_RUN"`
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		DataPath:   getEnv("DATA_PATH", DefaultDataPath),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "auto"),
		IDStrategy: getEnv("ID_STRATEGY", IDStrategyRandom),
		DryRun:     getEnvBool("DRY_RUN", false),
	}
}

// Validate checks the loaded values and returns a CONFIG_ERROR describing
// every offending variable.
func (c *Config) Validate() error {
	if err := validator.Struct(c); err != nil {
		return apperror.New(apperror.CodeConfig, "config.Validate", "%s", validator.Summary(err))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
