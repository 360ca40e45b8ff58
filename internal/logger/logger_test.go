package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func readLog(t *testing.T, f *os.File) string {
	t.Helper()
	if err := f.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	raw, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(raw)
}

func TestNew_AutoFormatOnFileIsJSON(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.json"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	log := New(f, "info", "auto")
	log.Info().Int("students_linked", 3).Msg("Migration finished")

	line := strings.TrimSpace(readLog(t, f))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["message"] != "Migration finished" || entry["students_linked"] != float64(3) {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew_PrettyFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	log := New(f, "info", "pretty")
	log.Info().Msg("Migration finished")

	out := readLog(t, f)
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "Migration finished") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestNew_LevelFallback(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.json"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	New(f, "not-a-level", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", zerolog.GlobalLevel())
	}

	warnLogger := New(f, "warn", "json")
	warnLogger.Info().Msg("hidden")
	if out := readLog(t, f); out != "" {
		t.Fatalf("info should be filtered at warn level, got %q", out)
	}
}
