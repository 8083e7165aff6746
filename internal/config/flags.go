package config

import "flag"

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-db-host postgres host
//	-db-port postgres port
//	-db-name postgres target database name
//	-db-user postgres user
//	-db-password postgres password
//	-db-default postgres administrative database name
//	-sqlite-path embedded fallback database file
//	-kdf-iterations PBKDF2 iteration count
//	-request-timeout request timeout (e.g., "30s", "1m")
//
// Unset flags are left at their zero values so that environment variables
// and defaults can fill them during the merge step.
func ParseFlags() *Config {
	cfg := new(Config)

	flag.StringVar(&cfg.Server.Address, "a", "", "Net address host:port")
	flag.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&cfg.DB.Host, "db-host", "", "Postgres host")
	flag.IntVar(&cfg.DB.Port, "db-port", 0, "Postgres port")
	flag.StringVar(&cfg.DB.Name, "db-name", "", "Postgres target database")
	flag.StringVar(&cfg.DB.User, "db-user", "", "Postgres user")
	flag.StringVar(&cfg.DB.Password, "db-password", "", "Postgres password")
	flag.StringVar(&cfg.DB.DefaultDB, "db-default", "", "Postgres administrative database")
	flag.StringVar(&cfg.SQLite.Path, "sqlite-path", "", "SQLite fallback database file")
	flag.IntVar(&cfg.Crypto.KDFIterations, "kdf-iterations", 0, "PBKDF2 iteration count")

	flag.Parse()

	return cfg
}
