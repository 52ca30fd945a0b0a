package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ui_preferences (
		document   TEXT NOT NULL,
		item_key   TEXT NOT NULL,
		expanded   INTEGER NOT NULL DEFAULT 1 CHECK(expanded IN (0, 1)),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (document, item_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ui_preferences_document ON ui_preferences(document)`,
	`CREATE TABLE IF NOT EXISTS save_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		document   TEXT NOT NULL,
		saved_at   TEXT NOT NULL,
		bytes      INTEGER NOT NULL,
		phases     INTEGER NOT NULL,
		items      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_save_log_document ON save_log(document, saved_at)`,
}

// Migrate applies every schema statement. Statements are idempotent, so it
// is safe to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
