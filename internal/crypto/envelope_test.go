package crypto

import (
	"bytes"
	"errors"
	"testing"
)

const testIterations = 100000

type testPayload struct {
	Cookies      []map[string]any `json:"cookies"`
	LocalStorage map[string]any   `json:"local_storage"`
}

func samplePayload() testPayload {
	return testPayload{
		Cookies:      []map[string]any{{"name": "sid", "value": "abc"}},
		LocalStorage: map[string]any{"theme": "dark"},
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	env := NewEnvelope(testIterations)

	password := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1 := env.DeriveKey(password, salt)
	k2 := env.DeriveKey(password, salt)

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same password+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	env := NewEnvelope(testIterations)

	password := "same password"
	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	if bytes.Equal(env.DeriveKey(password, salt1), env.DeriveKey(password, salt2)) {
		t.Fatalf("expected keys to differ for different salts")
	}
}

func TestEncrypt_FreshSaltAndNoncePerCall(t *testing.T) {
	env := NewEnvelope(testIterations)
	payload := samplePayload()

	c1, s1, n1, err := env.Encrypt(payload, "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	c2, s2, n2, err := env.Encrypt(payload, "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if len(n1) != 12 {
		t.Fatalf("nonce length = %d, want 12", len(n1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ between calls")
	}
	if bytes.Equal(n1, n2) {
		t.Fatalf("expected nonces to differ between calls")
	}
	if bytes.Equal(c1, c2) {
		t.Fatalf("expected ciphertexts to differ between calls")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	env := NewEnvelope(testIterations)
	payload := samplePayload()

	ciphertext, salt, nonce, err := env.Encrypt(payload, "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	var got testPayload
	if err := env.Decrypt(ciphertext, "secret", salt, nonce, &got); err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}

	if len(got.Cookies) != 1 || got.Cookies[0]["name"] != "sid" || got.Cookies[0]["value"] != "abc" {
		t.Fatalf("cookies not recovered: %v", got.Cookies)
	}
	if got.LocalStorage["theme"] != "dark" {
		t.Fatalf("local storage not recovered: %v", got.LocalStorage)
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	env := NewEnvelope(testIterations)

	ciphertext, salt, nonce, err := env.Encrypt(samplePayload(), "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	var got testPayload
	err = env.Decrypt(ciphertext, "wrong", salt, nonce, &got)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	env := NewEnvelope(testIterations)

	ciphertext, salt, nonce, err := env.Encrypt(samplePayload(), "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	ciphertext[0] ^= 0xFF

	var got testPayload
	err = env.Decrypt(ciphertext, "secret", salt, nonce, &got)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_ShortNonce(t *testing.T) {
	env := NewEnvelope(testIterations)

	ciphertext, salt, _, err := env.Encrypt(samplePayload(), "secret")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	var got testPayload
	err = env.Decrypt(ciphertext, "secret", salt, []byte{0x01, 0x02}, &got)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("error = %v, want ErrDecryptionFailed", err)
	}
}
