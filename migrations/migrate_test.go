package migrations

import (
	"io/fs"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_Present(t *testing.T) {
	files, err := fs.Glob(embedMigrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	sort.Strings(files)
	assert.Equal(t, []string{
		"00001_create_site_backups.sql",
		"00002_add_envelope_columns.sql",
	}, files)
}

func TestEmbeddedMigrations_HaveGooseDirectives(t *testing.T) {
	files, err := fs.Glob(embedMigrations, "*.sql")
	require.NoError(t, err)

	for _, name := range files {
		content, err := fs.ReadFile(embedMigrations, name)
		require.NoError(t, err)

		assert.Contains(t, string(content), "-- +goose Up", name)
		assert.Contains(t, string(content), "-- +goose Down", name)
	}
}
