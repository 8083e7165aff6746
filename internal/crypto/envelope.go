// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OmniSession Authors

// Package crypto implements the password-based encryption envelope used for
// backups stored with a password: PBKDF2-HMAC-SHA256 key derivation followed
// by AES-256-GCM authenticated encryption of the JSON-encoded payload.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltBytes is the KDF salt length generated per Encrypt call.
	saltBytes = 16

	// nonceBytes is the AES-GCM nonce length generated per Encrypt call.
	nonceBytes = 12

	// keyBytes is the derived key length (AES-256).
	keyBytes = 32
)

// ErrDecryptionFailed is returned for every Decrypt failure: wrong password,
// corrupted ciphertext, truncated nonce, or malformed plaintext JSON. The
// causes are deliberately not distinguishable to the caller.
var ErrDecryptionFailed = errors.New("decryption failed")

// envelope is the private implementation of [Envelope].
type envelope struct {
	// iterations is the PBKDF2 iteration count. Configurable per deployment,
	// never below the validated minimum of 100000.
	iterations int
}

// NewEnvelope constructs an [Envelope] with the given PBKDF2 iteration count.
func NewEnvelope(iterations int) Envelope {
	return &envelope{iterations: iterations}
}

// DeriveKey implements [Envelope]. It stretches password with PBKDF2 over
// HMAC-SHA256 into a 32-byte key.
func (e *envelope) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, e.iterations, keyBytes, sha256.New)
}

// Encrypt implements [Envelope].
//
// A fresh salt is generated for every call so that every encryption runs
// under a brand-new derived key; the random nonce is therefore never reused
// with the same key material even across backups of the same domain with the
// same password.
func (e *envelope) Encrypt(payload any, password string) ([]byte, []byte, []byte, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal payload: %w", err)
	}

	salt := make([]byte, saltBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	nonce := make([]byte, nonceBytes)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	gcm, err := e.newGCM(password, salt)
	if err != nil {
		return nil, nil, nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, salt, nonce, nil
}

// Decrypt implements [Envelope]. Any failure (authentication-tag mismatch,
// wrong nonce length, undecodable plaintext) collapses into
// [ErrDecryptionFailed] so the error carries no oracle for an attacker.
func (e *envelope) Decrypt(ciphertext []byte, password string, salt, nonce []byte, target any) error {
	gcm, err := e.newGCM(password, salt)
	if err != nil {
		return ErrDecryptionFailed
	}

	if len(nonce) != gcm.NonceSize() {
		return ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecryptionFailed
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return ErrDecryptionFailed
	}

	return nil
}

// newGCM derives the key for password+salt and builds the AES-256-GCM AEAD.
func (e *envelope) newGCM(password string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.DeriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
