package sqlite

import "database/sql"

// schema mirrors the hosted kv_store table: one text key, one text value.
// Rows are read back in rowid order, which is insertion order because upserts keep the rowid.
const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
