package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"appealbot/internal/entities"
	"appealbot/internal/infrastructure"

	"github.com/stretchr/testify/require"
)

func TestSQLiteSnapshotStore_SaveAndLoad(t *testing.T) {
	client, err := infrastructure.NewSQLiteClient(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer client.Close()

	store := NewSQLiteSnapshotStore(client.DB)
	manager := NewAppealManager()

	appeal := manager.Create("sender-1", "technical", "S", "D", "normal")
	require.NoError(t, manager.Escalate(appeal.ID, "slow"))
	require.NoError(t, manager.AddAttachment(appeal.ID, "invoice.pdf"))

	ctx := context.Background()
	for _, a := range manager.All() {
		require.NoError(t, store.SaveAppeal(ctx, a))
	}

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	require.Equal(t, appeal.ID, got.ID)
	require.Equal(t, "sender-1", got.SenderID)
	require.Equal(t, entities.StatusEscalated, got.Status)
	require.Equal(t, "high", got.Priority)
	require.Equal(t, []string{"invoice.pdf"}, got.Attachments)
	require.Len(t, got.Notes, 1)
	require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestSQLiteSnapshotStore_UpsertKeepsOneRow(t *testing.T) {
	client, err := infrastructure.NewSQLiteClient(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer client.Close()

	store := NewSQLiteSnapshotStore(client.DB)
	manager := NewAppealManager()
	appeal := manager.Create("sender-1", "billing", "S", "D", "normal")

	ctx := context.Background()
	saved, _ := manager.Get(appeal.ID)
	require.NoError(t, store.SaveAppeal(ctx, saved))

	require.NoError(t, manager.Escalate(appeal.ID, "still waiting"))
	saved, _ = manager.Get(appeal.ID)
	require.NoError(t, store.SaveAppeal(ctx, saved))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, entities.StatusEscalated, loaded[0].Status)
}

func TestSQLiteSnapshotStore_RestoreIntoFreshManager(t *testing.T) {
	client, err := infrastructure.NewSQLiteClient(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer client.Close()

	store := NewSQLiteSnapshotStore(client.DB)
	manager := NewAppealManager()
	appeal := manager.Create("sender-1", "technical", "S", "D", "normal")

	ctx := context.Background()
	for _, a := range manager.All() {
		require.NoError(t, store.SaveAppeal(ctx, a))
	}

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)

	fresh := NewAppealManager()
	fresh.Restore(loaded)
	require.Len(t, fresh.ListForSender("sender-1"), 1)

	// The lifecycle keeps working over restored records.
	require.NoError(t, fresh.UpdateStatus(appeal.ID, entities.StatusUnderReview, ""))
}
