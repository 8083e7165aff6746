// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OmniSession Authors

// Package store defines the storage backend abstraction for session backups
// and its two concrete implementations: a PostgreSQL primary backend and an
// embedded SQLite fallback. The active backend is chosen once at process
// start by [SelectBackend].
package store

import (
	"context"
	"time"

	"github.com/omnisession/omnisession-server/models"
)

// Backend is the uniform contract both storage engines implement.
//
// "Absent" is a normal outcome, not an error: FetchStatus and RestoreBackup
// return a nil pointer when no record exists for the domain, and
// DeleteBackup returns false. Errors are reserved for I/O, connection and
// query failures, and always wrap one of the package sentinel errors.
type Backend interface {
	// Name identifies the backend in logs ("postgres" or "sqlite").
	Name() string

	// EnsureSchema idempotently creates the persistent store and any missing
	// columns. It is safe to call repeatedly and concurrently with other
	// instances starting up. A failure wraps [ErrSchemaInit].
	EnsureSchema(ctx context.Context) error

	// FetchStatus reports the last-modified timestamp for domain, or nil
	// when no backup exists. No payload is transferred.
	FetchStatus(ctx context.Context, domain string) (*time.Time, error)

	// SaveBackup inserts or fully replaces the record for backup.Domain,
	// refreshing the server-assigned updated_at timestamp.
	SaveBackup(ctx context.Context, backup models.Backup) error

	// RestoreBackup returns the full record for domain, or nil when no
	// backup exists.
	RestoreBackup(ctx context.Context, domain string) (*models.Backup, error)

	// DeleteBackup removes the record for domain, reporting whether a row
	// existed and was removed.
	DeleteBackup(ctx context.Context, domain string) (bool, error)
}
