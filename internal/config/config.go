// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OmniSession Authors

package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration container for the omnisession
// server. It is populated by merging values from command-line flags and
// environment variables; flags take precedence for fields they set.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
//   - envDefault: documented default applied when the variable is unset.
type Config struct {
	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"USK_"`

	// DB holds the PostgreSQL connection settings for the primary backend.
	DB DB `envPrefix:"USK_DB_"`

	// SQLite holds the embedded fallback backend settings.
	SQLite SQLite `envPrefix:"USK_"`

	// Crypto holds key-derivation parameters for the encryption envelope.
	Crypto Crypto `envPrefix:"USK_"`
}

// Server holds network and timeout settings for the inbound HTTP transport.
type Server struct {
	// Address is the TCP address on which the HTTP server listens,
	// in "host:port" format.
	// Env: USK_ADDRESS (default ":8000")
	Address string `env:"ADDRESS" envDefault:":8000"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: USK_REQUEST_TIMEOUT (default "30s")
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// DB holds connection settings for the PostgreSQL primary backend.
//
// A DSN is assembled per target database rather than configured whole,
// because schema initialization needs two connections: one to the
// administrative database (to create the target database when missing) and
// one to the target database itself.
type DB struct {
	// Host of the PostgreSQL server.
	// Env: USK_DB_HOST (default "localhost")
	Host string `env:"HOST" envDefault:"localhost"`

	// Port of the PostgreSQL server.
	// Env: USK_DB_PORT (default 5432)
	Port int `env:"PORT" envDefault:"5432"`

	// Name is the target database holding the site_backups table.
	// Env: USK_DB_NAME (default "usk")
	Name string `env:"NAME" envDefault:"usk"`

	// User for both the administrative and the target connection.
	// Env: USK_DB_USER (default "postgres")
	User string `env:"USER" envDefault:"postgres"`

	// Password for both connections.
	// Env: USK_DB_PASSWORD (default "postgres")
	Password string `env:"PASSWORD" envDefault:"postgres"`

	// DefaultDB is the administrative database used to check for and create
	// the target database.
	// Env: USK_DB_DEFAULT (default "postgres")
	DefaultDB string `env:"DEFAULT" envDefault:"postgres"`
}

// SQLite holds settings for the embedded fallback backend.
type SQLite struct {
	// Path is the SQLite database file. Parent directories are created as
	// needed during schema initialization.
	// Env: USK_SQLITE_PATH (default "usk.sqlite3")
	Path string `env:"SQLITE_PATH" envDefault:"usk.sqlite3"`
}

// Crypto holds key-derivation parameters for the encryption envelope.
type Crypto struct {
	// KDFIterations is the PBKDF2 iteration count. Values below 100000 are
	// rejected by validation.
	// Env: USK_KDF_ITERATIONS (default 200000)
	KDFIterations int `env:"KDF_ITERATIONS" envDefault:"200000"`
}

// DSN builds a PostgreSQL connection string for the given database name
// using the configured host, port and credentials.
func (d DB) DSN(dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		d.Host, d.Port, dbname, d.User, d.Password,
	)
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first source wins
// for fields it sets):
//  1. Command-line flags
//  2. Environment variables (with documented defaults)
//
// Returns a fully populated *Config or an error if any source fails to load
// or the final config fails validation.
func GetConfig() (*Config, error) {
	return newConfigBuilder().
		withFlags().
		withEnv().
		build()
}
