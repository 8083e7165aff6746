package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/omnisession/omnisession-server/models"
)

// backupsTable is the single table both backends persist to.
const backupsTable = "site_backups"

// Query construction is shared between the backends; only the placeholder
// format (Dollar for postgres, Question for sqlite) and the upsert conflict
// clause differ.

func buildStatusQuery(ph sq.PlaceholderFormat, domain string) (string, []any, error) {
	return sq.Select("updated_at").
		From(backupsTable).
		Where(sq.Eq{"domain": domain}).
		PlaceholderFormat(ph).
		ToSql()
}

func buildRestoreQuery(ph sq.PlaceholderFormat, domain string) (string, []any, error) {
	return sq.Select("domain", "payload", "encrypted", "salt", "nonce", "updated_at").
		From(backupsTable).
		Where(sq.Eq{"domain": domain}).
		PlaceholderFormat(ph).
		ToSql()
}

func buildDeleteQuery(ph sq.PlaceholderFormat, domain string) (string, []any, error) {
	return sq.Delete(backupsTable).
		Where(sq.Eq{"domain": domain}).
		PlaceholderFormat(ph).
		ToSql()
}

// buildUpsertQuery builds the insert-or-replace statement. conflictClause is
// the engine-specific "ON CONFLICT (domain) DO UPDATE ..." suffix; updated_at
// is left to the column default on insert and refreshed by the clause on
// conflict, so the timestamp is always server-assigned.
func buildUpsertQuery(ph sq.PlaceholderFormat, backup models.Backup, conflictClause string) (string, []any, error) {
	return sq.Insert(backupsTable).
		Columns("domain", "payload", "encrypted", "salt", "nonce").
		Values(backup.Domain, backup.Payload, backup.Encrypted, backup.Salt, backup.Nonce).
		Suffix(conflictClause).
		PlaceholderFormat(ph).
		ToSql()
}
