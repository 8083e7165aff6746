package service

import "errors"

// Sentinel errors returned by [BackupService]. Callers should use
// [errors.Is] to match against them.
var (
	// ErrBackupNotFound is returned by Restore when no backup exists for
	// the requested domain.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrPasswordRequired is returned by Restore when the stored backup is
	// encrypted and the request carried no password.
	ErrPasswordRequired = errors.New("password required")

	// ErrInvalidPassword is returned by Restore when decryption fails.
	// Wrong-password and corrupted-ciphertext cases are deliberately folded
	// together so the error carries no oracle for an attacker.
	ErrInvalidPassword = errors.New("invalid password")
)
