package config

import "errors"

// minKDFIterations is the lowest PBKDF2 iteration count the service will run
// with. Lower values would weaken every password-protected backup at rest.
const minKDFIterations = 100000

var (
	// ErrEmptyServerAddress is returned when no HTTP listen address was
	// provided by any configuration source.
	ErrEmptyServerAddress = errors.New("server address is empty")

	// ErrEmptySQLitePath is returned when the fallback database file path is
	// empty, which would leave the service with no guaranteed backend.
	ErrEmptySQLitePath = errors.New("sqlite path is empty")

	// ErrKDFIterationsTooLow is returned when the configured PBKDF2 iteration
	// count is below minKDFIterations.
	ErrKDFIterationsTooLow = errors.New("kdf iteration count is below the allowed minimum")
)

// validate checks the merged configuration for values the service cannot
// safely run with.
func (c *Config) validate() error {
	if c.Server.Address == "" {
		return ErrEmptyServerAddress
	}

	if c.SQLite.Path == "" {
		return ErrEmptySQLitePath
	}

	if c.Crypto.KDFIterations < minKDFIterations {
		return ErrKDFIterationsTooLow
	}

	return nil
}
