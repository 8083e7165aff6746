package service

import (
	"context"
	"time"

	"github.com/omnisession/omnisession-server/models"
)

// BackupService is the application-level API over the active storage backend
// and the encryption envelope. Handlers depend only on this interface.
type BackupService interface {
	// InitSchema re-runs schema initialization on the already-selected
	// backend. It never re-runs backend selection.
	InitSchema(ctx context.Context) error

	// Status reports the last-modified timestamp for domain, or nil when no
	// backup exists.
	Status(ctx context.Context, domain string) (*time.Time, error)

	// Save persists a snapshot for domain, replacing any previous one. When
	// password is non-empty the payload is encrypted before storage.
	Save(ctx context.Context, domain string, payload models.SessionPayload, password string) error

	// Restore fetches and, when needed, decrypts the snapshot for domain.
	// Returns [ErrBackupNotFound] when no record exists,
	// [ErrPasswordRequired] when the record is encrypted and no password was
	// given, and [ErrInvalidPassword] when decryption fails.
	Restore(ctx context.Context, domain, password string) (*models.RestoredSession, error)

	// Delete removes the snapshot for domain, reporting whether one existed.
	Delete(ctx context.Context, domain string) (bool, error)
}
