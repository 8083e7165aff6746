// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OmniSession Authors

package models

import "time"

// Backup is a single persisted browser-session snapshot for one domain.
// Exactly one record exists per domain; every save fully replaces the
// previous one.
type Backup struct {
	// Domain is the root domain the snapshot belongs to. Unique key.
	Domain string

	// Payload is either the raw JSON encoding of SessionPayload or its
	// AES-GCM ciphertext, depending on Encrypted.
	Payload []byte

	// Encrypted reports whether Payload must be decrypted before use.
	Encrypted bool

	// Salt is the KDF salt. Present iff Encrypted is true.
	Salt []byte

	// Nonce is the AES-GCM nonce. Present iff Encrypted is true.
	Nonce []byte

	// UpdatedAt is server-assigned and refreshed on every save.
	UpdatedAt time.Time
}

// SessionPayload is the plaintext shape of a snapshot: the cookie list and
// the localStorage map captured from the browser.
type SessionPayload struct {
	Cookies      []map[string]any `json:"cookies"`
	LocalStorage map[string]any   `json:"local_storage"`
}

// RestoredSession is a decrypted (or never-encrypted) snapshot returned by
// the service layer together with its last-modified timestamp.
type RestoredSession struct {
	Domain    string
	Payload   SessionPayload
	UpdatedAt time.Time
}
