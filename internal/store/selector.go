package store

import (
	"context"
	"fmt"

	"github.com/omnisession/omnisession-server/internal/config"
	"github.com/omnisession/omnisession-server/internal/logger"
)

// SelectBackend picks the active storage backend for the process lifetime.
//
// The postgres primary is attempted first; when its schema initialization
// fails for any reason, the cause is logged as a warning and the sqlite
// fallback is constructed instead. A fallback initialization failure is
// returned to the caller and is fatal to startup; there is no further
// fallback.
//
// Selection runs once, before the service accepts traffic. The returned
// backend is injected into the service layer; nothing re-runs selection at
// runtime.
func SelectBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (Backend, error) {
	primary := NewPostgresBackend(cfg.DB, log)
	err := primary.EnsureSchema(ctx)
	if err == nil {
		log.Info().Str("backend", primary.Name()).Msg("using postgres storage")
		return primary, nil
	}
	log.Warn().Err(err).Msg("postgres unavailable, falling back to sqlite")

	fallback := NewSQLiteBackend(cfg.SQLite.Path, log)
	if err := fallback.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("fallback backend initialization: %w", err)
	}

	log.Info().Str("backend", fallback.Name()).Str("path", cfg.SQLite.Path).Msg("using sqlite storage")

	return fallback, nil
}
