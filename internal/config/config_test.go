package config

import (
	"strings"
	"testing"

	"github.com/noxss/roster-migrate/internal/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DATA_PATH", "LOG_LEVEL", "LOG_FORMAT", "ID_STRATEGY", "DRY_RUN"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.DataPath != DefaultDataPath {
		t.Fatalf("expected default data path, got %q", cfg.DataPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "auto" || cfg.IDStrategy != IDStrategyRandom || cfg.DryRun {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATA_PATH", "/tmp/roster.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ID_STRATEGY", IDStrategyDeterministic)
	t.Setenv("DRY_RUN", "true")

	cfg := Load()
	if cfg.DataPath != "/tmp/roster.json" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.IDStrategy != IDStrategyDeterministic || !cfg.DryRun {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_BadBoolFallsBack(t *testing.T) {
	t.Setenv("DRY_RUN", "maybe")
	if Load().DryRun {
		t.Fatal("expected fallback to false")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg := &Config{
		DataPath:   "",
		LogLevel:   "loud",
		LogFormat:  "json",
		IDStrategy: "sequential",
	}

	err := cfg.Validate()
	if !apperror.Is(err, apperror.CodeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	for _, field := range []string{"DATA_PATH", "LOG_LEVEL", "ID_STRATEGY"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %q", field, err.Error())
		}
	}
}
