// package repositories provides the SQLite persistence layer for track
// id mappings and the Spotify session.
package repositories

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS id_mappings (
	input_id  TEXT PRIMARY KEY,
	output_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	user_id      TEXT NOT NULL,
	access_token TEXT NOT NULL,
	expires_at   INTEGER NOT NULL
);
`

// Migrate creates the importer's tables if they do not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
