package infrastructure

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteClient is the zero-config local store used when no DATABASE_URL
// is configured. It only holds appeal snapshots; operator accounts live in
// Postgres.
type SQLiteClient struct {
	DB *sql.DB
}

func NewSQLiteClient(path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	client := &SQLiteClient{DB: db}
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

func (c *SQLiteClient) Migrate() error {
	_, err := c.DB.Exec(`
		CREATE TABLE IF NOT EXISTS appeal_snapshots (
			appeal_id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			category TEXT,
			subject TEXT,
			description TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			attachments TEXT NOT NULL DEFAULT '[]',
			notes TEXT NOT NULL DEFAULT '[]',
			resolution TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create appeal_snapshots table: %w", err)
	}

	_, err = c.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_appeal_snapshots_sender
		ON appeal_snapshots (sender_id);
	`)
	if err != nil {
		return fmt.Errorf("index appeal_snapshots: %w", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	return c.DB.Close()
}
