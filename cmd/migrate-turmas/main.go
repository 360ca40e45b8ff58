package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/noxss/roster-migrate/internal/apperror"
	"github.com/noxss/roster-migrate/internal/config"
	"github.com/noxss/roster-migrate/internal/logger"
	"github.com/noxss/roster-migrate/internal/repository"
	"github.com/noxss/roster-migrate/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, log, os.Stdout); err != nil {
		log.Fatal().
			Err(err).
			Str("code", string(apperror.CodeOf(err))).
			Str("path", cfg.DataPath).
			Msg(apperror.GetMessage(apperror.CodeOf(err)))
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ─── Initialize Services ───────────────────────────────────────────
	ids, err := service.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		return apperror.Wrap(apperror.CodeConfig, "main.run", err)
	}
	repo := repository.NewDocumentRepository(cfg.DataPath, log)
	migrationService := service.NewMigrationService(ids, log)

	// ─── Migrate ───────────────────────────────────────────────────────
	doc, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	migrated, report, err := migrationService.Migrate(doc)
	if err != nil {
		return err
	}
	log.Info().
		Str("path", repo.Path()).
		Str("id_strategy", cfg.IDStrategy).
		Bool("dry_run", cfg.DryRun).
		EmbedObject(report).
		Msg("Migration finished")

	if cfg.DryRun {
		fmt.Fprintln(stdout, "Simulação concluída; nenhum arquivo foi alterado.")
		return nil
	}

	if err := repo.Save(ctx, migrated); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Arquivo %s migrado com sucesso.\n", filepath.Base(repo.Path()))
	return nil
}
