package infrastructure

import (
	"context"
	"sync"
	"testing"

	"appealbot/internal/entities"

	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	appeals []*entities.Appeal
}

func (f *fakeReader) Get(id string) (*entities.Appeal, bool) {
	for _, a := range f.appeals {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (f *fakeReader) ListForSender(senderID string) []*entities.Appeal {
	var out []*entities.Appeal
	for _, a := range f.appeals {
		if a.SenderID == senderID {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeReader) All() []*entities.Appeal { return f.appeals }

type fakeStore struct {
	mu    sync.Mutex
	saved map[string]*entities.Appeal
}

func (f *fakeStore) SaveAppeal(_ context.Context, appeal *entities.Appeal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = make(map[string]*entities.Appeal)
	}
	f.saved[appeal.ID] = appeal
	return nil
}

func (f *fakeStore) LoadAll(_ context.Context) ([]*entities.Appeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.Appeal, 0, len(f.saved))
	for _, a := range f.saved {
		out = append(out, a)
	}
	return out, nil
}

func TestSnapshotOnce_WritesEveryAppeal(t *testing.T) {
	reader := &fakeReader{appeals: []*entities.Appeal{
		{ID: "APP-1", SenderID: "a", Status: entities.StatusPending},
		{ID: "APP-2", SenderID: "b", Status: entities.StatusEscalated},
	}}
	store := &fakeStore{}

	s := NewSnapshotter(reader, store, 0)
	s.SnapshotOnce(context.Background())

	require.Len(t, store.saved, 2)
	require.Equal(t, entities.StatusEscalated, store.saved["APP-2"].Status)
}

func TestStop_FlushesFinalSnapshot(t *testing.T) {
	reader := &fakeReader{appeals: []*entities.Appeal{
		{ID: "APP-1", SenderID: "a", Status: entities.StatusPending},
	}}
	store := &fakeStore{}

	s := NewSnapshotter(reader, store, 0)
	s.Start()
	s.Stop()

	require.Len(t, store.saved, 1)
}
