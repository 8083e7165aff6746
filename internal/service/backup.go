// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OmniSession Authors

// Package service implements the backup application logic on top of the
// selected storage backend: plain or password-encrypted saves, restores with
// decryption, status checks and deletes.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omnisession/omnisession-server/internal/crypto"
	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/internal/store"
	"github.com/omnisession/omnisession-server/models"
)

// backupService is the private implementation of [BackupService].
type backupService struct {
	backend  store.Backend
	envelope crypto.Envelope
	logger   *logger.Logger
}

// NewBackupService constructs a [BackupService] over the active backend and
// the encryption envelope.
func NewBackupService(backend store.Backend, envelope crypto.Envelope, log *logger.Logger) BackupService {
	return &backupService{
		backend:  backend,
		envelope: envelope,
		logger:   log,
	}
}

// InitSchema implements [BackupService].
func (s *backupService) InitSchema(ctx context.Context) error {
	return s.backend.EnsureSchema(ctx)
}

// Status implements [BackupService].
func (s *backupService) Status(ctx context.Context, domain string) (*time.Time, error) {
	return s.backend.FetchStatus(ctx, domain)
}

// Save implements [BackupService]. An empty password stores the payload as
// raw JSON with no salt or nonce; a non-empty password routes it through the
// encryption envelope first. Either way the write is a full-replace upsert.
func (s *backupService) Save(ctx context.Context, domain string, payload models.SessionPayload, password string) error {
	log := logger.FromContext(ctx)

	backup := models.Backup{Domain: domain}

	if password == "" {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		backup.Payload = raw
	} else {
		ciphertext, salt, nonce, err := s.envelope.Encrypt(payload, password)
		if err != nil {
			return fmt.Errorf("encrypt payload: %w", err)
		}
		backup.Payload = ciphertext
		backup.Encrypted = true
		backup.Salt = salt
		backup.Nonce = nonce
	}

	if err := s.backend.SaveBackup(ctx, backup); err != nil {
		return err
	}

	log.Info().Str("domain", domain).Bool("encrypted", backup.Encrypted).Msg("backup saved")

	return nil
}

// Restore implements [BackupService].
func (s *backupService) Restore(ctx context.Context, domain, password string) (*models.RestoredSession, error) {
	record, err := s.backend.RestoreBackup(ctx, domain)
	if err != nil {
		return nil, err
	}

	if record == nil || len(record.Payload) == 0 {
		return nil, ErrBackupNotFound
	}

	var payload models.SessionPayload

	if record.Encrypted {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if err := s.envelope.Decrypt(record.Payload, password, record.Salt, record.Nonce, &payload); err != nil {
			return nil, ErrInvalidPassword
		}
	} else {
		if err := json.Unmarshal(record.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode stored payload: %w", err)
		}
	}

	// the HTTP layer promises a list and an object, never null
	if payload.Cookies == nil {
		payload.Cookies = []map[string]any{}
	}
	if payload.LocalStorage == nil {
		payload.LocalStorage = map[string]any{}
	}

	return &models.RestoredSession{
		Domain:    record.Domain,
		Payload:   payload,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

// Delete implements [BackupService].
func (s *backupService) Delete(ctx context.Context, domain string) (bool, error) {
	log := logger.FromContext(ctx)

	deleted, err := s.backend.DeleteBackup(ctx, domain)
	if err != nil {
		return false, err
	}

	log.Info().Str("domain", domain).Bool("deleted", deleted).Msg("backup delete processed")

	return deleted, nil
}
