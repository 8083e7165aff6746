package store

import "errors"

// Sentinel errors returned (or wrapped) by backend methods. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrSchemaInit is returned when EnsureSchema fails in either of its
	// phases. For the primary backend the selector treats this as
	// "backend unavailable" and falls back.
	ErrSchemaInit = errors.New("storage schema initialization failed")

	// ErrNotInitialized is returned when a data operation is attempted on a
	// backend whose EnsureSchema has never succeeded.
	ErrNotInitialized = errors.New("storage backend not initialized")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT query against
	// the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan backup row")
)
