package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnisession/omnisession-server/internal/config"
	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/models"
)

// testDBConfig points at a port nothing listens on, so the postgres primary
// fails fast during schema initialization.
func testDBConfig() config.DB {
	return config.DB{
		Host:      "127.0.0.1",
		Port:      1,
		Name:      "usk_test",
		User:      "postgres",
		Password:  "postgres",
		DefaultDB: "postgres",
	}
}

func TestSelectBackend_FallsBackToSQLite(t *testing.T) {
	cfg := &config.Config{
		DB: testDBConfig(),
		SQLite: config.SQLite{
			Path: filepath.Join(t.TempDir(), "fallback.sqlite3"),
		},
	}
	ctx := testContext()

	backend, err := SelectBackend(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, backend)
	assert.Equal(t, "sqlite", backend.Name())

	// the selected backend must be fully operational
	require.NoError(t, backend.SaveBackup(ctx, models.Backup{
		Domain:  "example.com",
		Payload: []byte(`{"cookies":[]}`),
	}))

	backup, err := backend.RestoreBackup(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, backup)
}

func TestSelectBackend_FallbackFailureIsFatal(t *testing.T) {
	// a regular file in place of the parent directory makes sqlite
	// initialization fail as well
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	cfg := &config.Config{
		DB: testDBConfig(),
		SQLite: config.SQLite{
			Path: filepath.Join(blocker, "fallback.sqlite3"),
		},
	}

	backend, err := SelectBackend(testContext(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, backend)
	assert.ErrorIs(t, err, ErrSchemaInit)
}
