package infrastructure

import (
	"context"
	"fmt"
	"time"

	"appealbot/internal/interfaces"
)

// Snapshotter periodically copies every appeal from the in-memory manager
// into a SnapshotStore. The core itself never touches disk or network; this
// loop is the only writer.
type Snapshotter struct {
	source   interfaces.AppealReader
	store    interfaces.SnapshotStore
	interval time.Duration
	stop     chan struct{}
}

func NewSnapshotter(source interfaces.AppealReader, store interfaces.SnapshotStore, interval time.Duration) *Snapshotter {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Snapshotter{
		source:   source,
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the snapshot loop in a goroutine until Stop is called.
func (s *Snapshotter) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SnapshotOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// SnapshotOnce writes the current appeal set through the store. Failures on
// individual appeals are logged and skipped; the next tick retries them.
func (s *Snapshotter) SnapshotOnce(ctx context.Context) {
	for _, appeal := range s.source.All() {
		if err := s.store.SaveAppeal(ctx, appeal); err != nil {
			fmt.Printf("[SNAPSHOT] save %s: %v\n", appeal.ID, err)
		}
	}
}

// Stop ends the loop after flushing one final snapshot.
func (s *Snapshotter) Stop() {
	close(s.stop)
	s.SnapshotOnce(context.Background())
}
