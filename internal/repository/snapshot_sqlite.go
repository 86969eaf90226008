package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"appealbot/internal/entities"
)

// SQLiteSnapshotStore is the local-file variant of the snapshot store, used
// when no Postgres is configured.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

func NewSQLiteSnapshotStore(db *sql.DB) *SQLiteSnapshotStore {
	return &SQLiteSnapshotStore{db: db}
}

func (s *SQLiteSnapshotStore) SaveAppeal(ctx context.Context, appeal *entities.Appeal) error {
	attachments, err := json.Marshal(appeal.Attachments)
	if err != nil {
		return fmt.Errorf("marshal attachments: %w", err)
	}
	notes, err := json.Marshal(appeal.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO appeal_snapshots
			(appeal_id, sender_id, category, subject, description, status,
			 priority, attachments, notes, resolution, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (appeal_id)
		DO UPDATE SET
			status = excluded.status,
			priority = excluded.priority,
			attachments = excluded.attachments,
			notes = excluded.notes,
			resolution = excluded.resolution,
			updated_at = excluded.updated_at
	`, appeal.ID, appeal.SenderID, appeal.Category, appeal.Subject, appeal.Description,
		string(appeal.Status), appeal.Priority, string(attachments), string(notes),
		appeal.Resolution, appeal.CreatedAt, appeal.UpdatedAt)
	return err
}

func (s *SQLiteSnapshotStore) LoadAll(ctx context.Context) ([]*entities.Appeal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT appeal_id, sender_id, category, subject, description, status,
		       priority, attachments, notes, resolution, created_at, updated_at
		FROM appeal_snapshots
		ORDER BY appeal_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appeals := []*entities.Appeal{}
	for rows.Next() {
		var a entities.Appeal
		var status, attachments, notes string
		if err := rows.Scan(&a.ID, &a.SenderID, &a.Category, &a.Subject, &a.Description,
			&status, &a.Priority, &attachments, &notes, &a.Resolution,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = entities.AppealStatus(status)
		if err := json.Unmarshal([]byte(attachments), &a.Attachments); err != nil {
			return nil, fmt.Errorf("unmarshal attachments for %s: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(notes), &a.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal notes for %s: %w", a.ID, err)
		}
		appeals = append(appeals, &a)
	}
	return appeals, rows.Err()
}
