package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/noxss/roster-migrate/internal/apperror"
	"github.com/noxss/roster-migrate/internal/model"
	"github.com/rs/zerolog"
)

const defaultFileMode os.FileMode = 0o644

// DocumentRepository handles reading and writing the roster JSON file.
type DocumentRepository struct {
	path string
	log  zerolog.Logger
}

// NewDocumentRepository creates a new DocumentRepository for path.
func NewDocumentRepository(path string, log zerolog.Logger) *DocumentRepository {
	return &DocumentRepository{path: path, log: log}
}

// Path returns the file the repository reads and overwrites.
func (r *DocumentRepository) Path() string {
	return r.path
}

// Load reads and parses the whole file.
func (r *DocumentRepository) Load(ctx context.Context) (model.Document, error) {
	const op = "repository.Load"

	if err := ctx.Err(); err != nil {
		return model.Document{}, apperror.Wrap(apperror.CodeIO, op, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return model.Document{}, apperror.Wrap(apperror.CodeIO, op, err)
	}

	doc, err := model.DecodeDocument(data)
	if err != nil {
		return model.Document{}, err
	}

	r.log.Debug().Str("path", r.path).Int("bytes", len(data)).Msg("Document loaded")
	return doc, nil
}

// Save encodes doc in memory, writes it to a temporary file next to the
// target and renames it into place. The target is never left half written.
func (r *DocumentRepository) Save(ctx context.Context, doc model.Document) (err error) {
	const op = "repository.Save"

	data, err := doc.Encode()
	if err != nil {
		return err
	}

	mode := defaultFileMode
	if info, statErr := os.Stat(r.path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	if err = tmp.Sync(); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	if err = tmp.Close(); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	if err = ctx.Err(); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}
	if err = os.Rename(tmpName, r.path); err != nil {
		return apperror.Wrap(apperror.CodeIO, op, err)
	}

	r.log.Debug().Str("path", r.path).Int("bytes", len(data)).Msg("Document saved")
	return nil
}
