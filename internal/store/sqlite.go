package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/models"
)

// sqliteSchema is the current shape of the backups table. Timestamps use
// millisecond precision so that two quick successive saves still get
// strictly increasing updated_at values.
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS site_backups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT UNIQUE NOT NULL,
		payload BLOB NOT NULL,
		encrypted INTEGER NOT NULL DEFAULT 0,
		salt BLOB,
		nonce BLOB,
		updated_at TIMESTAMP DEFAULT (strftime('%Y-%m-%d %H:%M:%f','now'))
	);`

// sqliteConflictClause mirrors the postgres upsert with the engine's own
// timestamp function.
const sqliteConflictClause = `ON CONFLICT(domain) DO UPDATE SET
		payload = excluded.payload,
		encrypted = excluded.encrypted,
		salt = excluded.salt,
		nonce = excluded.nonce,
		updated_at = (strftime('%Y-%m-%d %H:%M:%f','now'))`

// sqliteBackupColumns lists the columns EnsureSchema additively adds to
// tables created by older versions of the service. SQLite has no
// "ADD COLUMN IF NOT EXISTS", so presence is checked via PRAGMA table_info.
var sqliteBackupColumns = []struct {
	name       string
	definition string
}{
	{"payload", "payload BLOB"},
	{"encrypted", "encrypted INTEGER NOT NULL DEFAULT 0"},
	{"salt", "salt BLOB"},
	{"nonce", "nonce BLOB"},
	{"updated_at", "updated_at TIMESTAMP"},
}

// SQLiteBackend is the fallback [Backend], persisting backups to a single
// local file. It has no network dependency, which makes it the
// guaranteed-success fallback when postgres is unreachable.
type SQLiteBackend struct {
	path   string
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteBackend constructs an SQLiteBackend persisting to the given file.
// The file and its parent directories are created by EnsureSchema.
func NewSQLiteBackend(path string, log *logger.Logger) *SQLiteBackend {
	return &SQLiteBackend{
		path:   path,
		logger: log,
	}
}

// Name implements [Backend].
func (s *SQLiteBackend) Name() string { return "sqlite" }

// EnsureSchema implements [Backend]: it creates the database file (and its
// parent directories) when missing, creates the table if absent, and
// additively adds any missing columns by inspecting the existing table
// structure. Existing data is never dropped or altered.
func (s *SQLiteBackend) EnsureSchema(ctx context.Context) error {
	if err := s.ensureFile(); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaInit, err)
	}

	if s.db == nil {
		db, err := sql.Open("sqlite3", s.path)
		if err != nil {
			return fmt.Errorf("%w: open database file: %w", ErrSchemaInit, err)
		}
		s.db = db
	}

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %w", ErrSchemaInit, err)
	}

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("%w: create table: %w", ErrSchemaInit, err)
	}

	if err := s.ensureColumns(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaInit, err)
	}

	s.logger.Info().Str("path", s.path).Msg("sqlite schema ensured")

	return nil
}

// ensureFile creates the database file and its parent directories when they
// do not exist yet.
func (s *SQLiteBackend) ensureFile() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		f, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("create database file: %w", err)
		}
		f.Close()
	}

	return nil
}

// ensureColumns adds every expected column missing from an existing table.
func (s *SQLiteBackend) ensureColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(site_backups)")
	if err != nil {
		return fmt.Errorf("inspect table structure: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, columnType string
			defaultValue     sql.NullString
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &defaultValue, &pk); err != nil {
			return fmt.Errorf("scan table structure: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table structure: %w", err)
	}

	for _, column := range sqliteBackupColumns {
		if existing[column.name] {
			continue
		}

		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", backupsTable, column.definition)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("add column %s: %w", column.name, err)
		}

		s.logger.Info().Str("column", column.name).Msg("added missing column")
	}

	return nil
}

// FetchStatus implements [Backend].
func (s *SQLiteBackend) FetchStatus(ctx context.Context, domain string) (*time.Time, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildStatusQuery(sq.Question, domain)
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.FetchStatus").Str("domain", domain).Msg("failed to build status query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updatedAt time.Time
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.FetchStatus").Str("domain", domain).Msg("failed to fetch backup status")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return &updatedAt, nil
}

// SaveBackup implements [Backend] with the engine's native upsert keyed on
// domain.
func (s *SQLiteBackend) SaveBackup(ctx context.Context, backup models.Backup) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildUpsertQuery(sq.Question, backup, sqliteConflictClause)
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.SaveBackup").Str("domain", backup.Domain).Msg("failed to build upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "SQLiteBackend.SaveBackup").Str("domain", backup.Domain).Msg("failed to save backup")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// RestoreBackup implements [Backend].
func (s *SQLiteBackend) RestoreBackup(ctx context.Context, domain string) (*models.Backup, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildRestoreQuery(sq.Question, domain)
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.RestoreBackup").Str("domain", domain).Msg("failed to build restore query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var backup models.Backup
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
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
		log.Err(err).Str("func", "SQLiteBackend.RestoreBackup").Str("domain", domain).Msg("failed to restore backup")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &backup, nil
}

// DeleteBackup implements [Backend].
func (s *SQLiteBackend) DeleteBackup(ctx context.Context, domain string) (bool, error) {
	if s.db == nil {
		return false, ErrNotInitialized
	}

	log := logger.FromContext(ctx)

	query, args, err := buildDeleteQuery(sq.Question, domain)
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.DeleteBackup").Str("domain", domain).Msg("failed to build delete query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.DeleteBackup").Str("domain", domain).Msg("failed to delete backup")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "SQLiteBackend.DeleteBackup").Str("domain", domain).Msg("failed to read affected rows")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}
