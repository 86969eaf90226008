package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"appealbot/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshotStore persists appeal snapshots in the appeal_snapshots
// table. Attachments and notes travel as JSONB.
type PostgresSnapshotStore struct {
	db *pgxpool.Pool
}

func NewPostgresSnapshotStore(db *pgxpool.Pool) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

func (s *PostgresSnapshotStore) SaveAppeal(ctx context.Context, appeal *entities.Appeal) error {
	attachments, err := json.Marshal(appeal.Attachments)
	if err != nil {
		return fmt.Errorf("marshal attachments: %w", err)
	}
	notes, err := json.Marshal(appeal.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO appeal_snapshots
			(appeal_id, sender_id, category, subject, description, status,
			 priority, attachments, notes, resolution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (appeal_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			attachments = EXCLUDED.attachments,
			notes = EXCLUDED.notes,
			resolution = EXCLUDED.resolution,
			updated_at = EXCLUDED.updated_at
	`, appeal.ID, appeal.SenderID, appeal.Category, appeal.Subject, appeal.Description,
		string(appeal.Status), appeal.Priority, attachments, notes,
		appeal.Resolution, appeal.CreatedAt, appeal.UpdatedAt)
	return err
}

func (s *PostgresSnapshotStore) LoadAll(ctx context.Context) ([]*entities.Appeal, error) {
	rows, err := s.db.Query(ctx, `
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
		var status string
		var attachments, notes []byte
		if err := rows.Scan(&a.ID, &a.SenderID, &a.Category, &a.Subject, &a.Description,
			&status, &a.Priority, &attachments, &notes, &a.Resolution,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = entities.AppealStatus(status)
		if err := json.Unmarshal(attachments, &a.Attachments); err != nil {
			return nil, fmt.Errorf("unmarshal attachments for %s: %w", a.ID, err)
		}
		if err := json.Unmarshal(notes, &a.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal notes for %s: %w", a.ID, err)
		}
		appeals = append(appeals, &a)
	}
	return appeals, rows.Err()
}
