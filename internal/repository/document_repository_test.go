package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/noxss/roster-migrate/internal/apperror"
	"github.com/noxss/roster-migrate/internal/model"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDocumentRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "database_alunos.json", `{"metadata":{"escola":"Colégio Ação"},"alunos":[]}`, 0o600)
	repo := NewDocumentRepository(path, zerolog.Nop())
	ctx := context.Background()

	doc, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "{\n  \"metadata\": {\n    \"escola\": \"Colégio Ação\"\n  },\n  \"alunos\": []\n}\n"
	if string(got) != want {
		t.Fatalf("unexpected file content:\n%s", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600 preserved, got %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the data file, found %d entries", len(entries))
	}
}

func TestDocumentRepository_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code apperror.Code
	}{
		{"missing file", filepath.Join(dir, "absent.json"), apperror.CodeIO},
		{"invalid json", writeFile(t, dir, "broken.json", `{"alunos": [}`, 0o644), apperror.CodeParse},
		{"array root", writeFile(t, dir, "array.json", `[]`, 0o644), apperror.CodeStructural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocumentRepository(tt.path, zerolog.Nop()).Load(context.Background())
			if !apperror.Is(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestDocumentRepository_SaveFailureLeavesTargetIntact(t *testing.T) {
	dir := t.TempDir()
	original := `{"alunos": []}`
	path := writeFile(t, dir, "database_alunos.json", original, 0o644)
	repo := NewDocumentRepository(path, zerolog.Nop())

	doc, err := model.DecodeDocument([]byte(`{"alunos": [{"nome": "Ana"}]}`))
	if err != nil {
		t.Fatalf("DecodeDocument error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Save(ctx, doc); !apperror.Is(err, apperror.CodeIO) {
		t.Fatalf("expected IO error, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != original {
		t.Fatalf("target was modified: %s", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %d entries", len(entries))
	}
}

func TestDocumentRepository_SaveToMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "database_alunos.json")
	doc, err := model.DecodeDocument([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeDocument error: %v", err)
	}
	if err := NewDocumentRepository(path, zerolog.Nop()).Save(context.Background(), doc); !apperror.Is(err, apperror.CodeIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
}
