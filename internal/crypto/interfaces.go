package crypto

// Envelope encrypts and decrypts session payloads with a key derived from a
// user-supplied password. Implementations must generate a fresh salt and
// nonce on every Encrypt call so that key material is never reused.
type Envelope interface {
	// DeriveKey derives a 256-bit key from password and salt. The same
	// inputs always yield the same key.
	DeriveKey(password string, salt []byte) []byte

	// Encrypt serializes payload to JSON and encrypts it with a key derived
	// from password and a fresh random salt, using AES-256-GCM with a fresh
	// random nonce. Returns the ciphertext together with the salt and nonce
	// needed to decrypt it later.
	Encrypt(payload any, password string) (ciphertext, salt, nonce []byte, err error)

	// Decrypt reverses Encrypt: it derives the key from password and salt,
	// authenticates and decrypts ciphertext with nonce, and unmarshals the
	// plaintext JSON into target. Every failure mode is reported as
	// [ErrDecryptionFailed] so callers cannot distinguish a wrong password
	// from tampered data.
	Decrypt(ciphertext []byte, password string, salt, nonce []byte, target any) error
}
