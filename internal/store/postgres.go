package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/omnisession/omnisession-server/internal/config"
	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/migrations"
	"github.com/omnisession/omnisession-server/models"
)

// postgresConflictClause refreshes every stored field and the server-side
// timestamp when a backup for the domain already exists.
const postgresConflictClause = `ON CONFLICT (domain) DO UPDATE SET
		payload = EXCLUDED.payload,
		encrypted = EXCLUDED.encrypted,
		salt = EXCLUDED.salt,
		nonce = EXCLUDED.nonce,
		updated_at = CURRENT_TIMESTAMP`

// PostgresBackend is the primary [Backend], persisting backups to a
// PostgreSQL database reached over the network.
//
// Connections are pooled by database/sql: every operation borrows a
// connection for its own duration only, nothing is held across requests.
type PostgresBackend struct {
	cfg    config.DB
	db     *sql.DB
	logger *logger.Logger
}

// NewPostgresBackend constructs a PostgresBackend from connection settings.
// No connection is made until EnsureSchema is called.
func NewPostgresBackend(cfg config.DB, log *logger.Logger) *PostgresBackend {
	return &PostgresBackend{
		cfg:    cfg,
		logger: log,
	}
}

// Name implements [Backend].
func (p *PostgresBackend) Name() string { return "postgres" }

// EnsureSchema implements [Backend] in two phases: first the target database
// is created through the administrative database when missing, then the
// site_backups table and its columns are brought up to date by running the
// embedded goose migrations. Both phases are idempotent and safe under
// concurrent startup of multiple instances.
//
// Any failure wraps [ErrSchemaInit], which the selector reads as "primary
// backend unavailable".
func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if err := p.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaInit, err)
	}

	if err := p.ensureTable(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaInit, err)
	}

	p.logger.Info().Str("database", p.cfg.Name).Msg("postgres schema ensured")

	return nil
}

// ensureDatabase connects to the administrative database, checks whether the
// target database exists by name and creates it when absent. The
// administrative connection is closed before returning.
func (p *PostgresBackend) ensureDatabase(ctx context.Context) error {
	admin, err := sql.Open("pgx", p.cfg.DSN(p.cfg.DefaultDB))
	if err != nil {
		return fmt.Errorf("open admin database: %w", err)
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)",
		p.cfg.Name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database existence: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := admin.ExecContext(ctx, fmt.Sprintf(`CREATE DATABASE %q`, p.cfg.Name)); err != nil {
		// another instance may have created it between the check and the create
		if isPostgresError(err, pgerrcode.DuplicateDatabase) {
			return nil
		}
		return fmt.Errorf("create database %q: %w", p.cfg.Name, err)
	}

	p.logger.Info().Str("database", p.cfg.Name).Msg("database created")

	return nil
}

// ensureTable opens the target database pool when needed and applies the
// embedded migrations: create the table if absent, then additively add any
// missing columns. Existing data is never dropped or altered.
func (p *PostgresBackend) ensureTable(ctx context.Context) error {
	if p.db == nil {
		db, err := sql.Open("pgx", p.cfg.DSN(p.cfg.Name))
		if err != nil {
			return fmt.Errorf("open target database: %w", err)
		}
		db.SetMaxOpenConns(10)
		p.db = db
	}

	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping target database: %w", err)
	}

	if err := migrations.Migrate(p.db); err != nil {
		return err
	}

	return nil
}

// FetchStatus implements [Backend].
func (p *PostgresBackend) FetchStatus(ctx context.Context, domain string) (*time.Time, error) {
	if p.db == nil {
		return nil, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildStatusQuery(sq.Dollar, domain)
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.FetchStatus").Str("domain", domain).Msg("failed to build status query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updatedAt time.Time
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.FetchStatus").Str("domain", domain).Msg("failed to fetch backup status")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &updatedAt, nil
}

// SaveBackup implements [Backend] with a native upsert keyed on domain.
func (p *PostgresBackend) SaveBackup(ctx context.Context, backup models.Backup) error {
	if p.db == nil {
		return ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildUpsertQuery(sq.Dollar, backup, postgresConflictClause)
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.SaveBackup").Str("domain", backup.Domain).Msg("failed to build upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "PostgresBackend.SaveBackup").Str("domain", backup.Domain).Msg("failed to save backup")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// RestoreBackup implements [Backend].
func (p *PostgresBackend) RestoreBackup(ctx context.Context, domain string) (*models.Backup, error) {
	if p.db == nil {
		return nil, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildRestoreQuery(sq.Dollar, domain)
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.RestoreBackup").Str("domain", domain).Msg("failed to build restore query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var backup models.Backup
	err = p.db.QueryRowContext(ctx, query, args...).Scan(
		&backup.Domain,
		&backup.Payload,
		&backup.Encrypted,
		&backup.Salt,
		&backup.Nonce,
		&backup.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.RestoreBackup").Str("domain", domain).Msg("failed to restore backup")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &backup, nil
}

// DeleteBackup implements [Backend].
func (p *PostgresBackend) DeleteBackup(ctx context.Context, domain string) (bool, error) {
	if p.db == nil {
		return false, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildDeleteQuery(sq.Dollar, domain)
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.DeleteBackup").Str("domain", domain).Msg("failed to build delete query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.DeleteBackup").Str("domain", domain).Msg("failed to delete backup")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "PostgresBackend.DeleteBackup").Str("domain", domain).Msg("failed to read affected rows")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

// isPostgresError reports whether err is a postgres error with the given
// pgerrcode code.
func isPostgresError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
