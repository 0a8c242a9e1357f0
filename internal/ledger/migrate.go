package ledger

import (
	"fmt"
	"io"
	"os"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP NULL
);

CREATE TABLE IF NOT EXISTS time_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NULL,
	duration INTEGER NULL,
	notes TEXT NULL,
	created_at TIMESTAMP NOT NULL,
	FOREIGN KEY (task_id) REFERENCES tasks (id)
);
`

// migrate creates the schema on a fresh database and upgrades an older
// one in place. Runs once in Open, before any other operation.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return s.ensureCompletedAt()
}

// ensureCompletedAt adds the completed_at column to databases created
// before it existed. The addition is non-destructive (default null),
// and the database file is backed up first.
func (s *Store) ensureCompletedAt() error {
	rows, err := s.db.Query("PRAGMA table_info(tasks)")
	if err != nil {
		return fmt.Errorf("inspect tasks schema: %w", err)
	}
	defer rows.Close()

	hasCompletedAt := false
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scan tasks schema: %w", err)
		}
		if name == "completed_at" {
			hasCompletedAt = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if hasCompletedAt {
		return nil
	}

	// Best effort: a failed backup must not block the upgrade.
	_ = backupFile(s.path)

	if _, err := s.db.Exec("ALTER TABLE tasks ADD COLUMN completed_at TIMESTAMP NULL"); err != nil {
		return fmt.Errorf("add completed_at column: %w", err)
	}
	return nil
}

// backupFile copies the database file to a timestamped sibling before a
// schema change.
func backupFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102_150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
