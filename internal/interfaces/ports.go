package interfaces

import (
	"context"

	"appealbot/internal/entities"
)

// MessageProcessor is the core-facing entry point a transport binding calls
// with one inbound message at a time.
type MessageProcessor interface {
	ProcessMessage(msg entities.InboundMessage) entities.OutboundReply
}

// AppealReader exposes read access to appeal records, enough for an
// external adapter to snapshot state without reaching into the core.
type AppealReader interface {
	Get(appealID string) (*entities.Appeal, bool)
	ListForSender(senderID string) []*entities.Appeal
	All() []*entities.Appeal
}

// SnapshotStore persists appeal snapshots outside the core. The core never
// calls this itself; the snapshotter loop in infrastructure does.
type SnapshotStore interface {
	SaveAppeal(ctx context.Context, appeal *entities.Appeal) error
	LoadAll(ctx context.Context) ([]*entities.Appeal, error)
}
