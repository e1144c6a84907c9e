package storage

import (
	"database/sql"
	"fmt"

	"almanac/internal/log"
)

// migrations run in order; index+1 is the schema version kept in
// PRAGMA user_version.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS daily (
	date TEXT PRIMARY KEY,
	diary TEXT NOT NULL CHECK (diary <> '')
);
CREATE TABLE IF NOT EXISTS static (
	monthday TEXT PRIMARY KEY CHECK (length(monthday) = 5),
	diary TEXT NOT NULL CHECK (diary <> '')
);`,
	`
ALTER TABLE daily ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';
ALTER TABLE static ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';`,
}

func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func migrate(db *sql.DB) error {
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("set schema version %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
		log.Info("schema migrated", "version", i+1)
	}
	return nil
}
