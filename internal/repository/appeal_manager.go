package repository

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"appealbot/internal/entities"
)

var (
	// ErrUnknownAppeal is returned when an operation references an
	// appeal id that was never created.
	ErrUnknownAppeal = errors.New("unknown appeal")
	// ErrInvalidTransition is returned when a status change is not in
	// the allowed transition set. The appeal is left untouched.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmptyResolution is returned when closing without a resolution.
	ErrEmptyResolution = errors.New("resolution required to close appeal")
)

// transitions is the single source of truth for lifecycle legality.
// closed is terminal and has no outgoing edges.
var transitions = map[entities.AppealStatus][]entities.AppealStatus{
	entities.StatusPending:     {entities.StatusUnderReview, entities.StatusEscalated},
	entities.StatusUnderReview: {entities.StatusApproved, entities.StatusRejected, entities.StatusEscalated},
	entities.StatusApproved:    {entities.StatusClosed},
	entities.StatusRejected:    {entities.StatusClosed},
	entities.StatusEscalated:   {entities.StatusClosed},
	entities.StatusClosed:      {},
}

func canTransition(from, to entities.AppealStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AppealManager owns every appeal record for its lifetime and enforces
// the status state machine. All methods are safe for concurrent use;
// returned appeals are copies.
type AppealManager struct {
	mu            sync.RWMutex
	appeals       map[string]*entities.Appeal
	senderAppeals map[string][]string // insertion order, used for "latest appeal"
	seq           uint64
}

func NewAppealManager() *AppealManager {
	return &AppealManager{
		appeals:       make(map[string]*entities.Appeal),
		senderAppeals: make(map[string][]string),
	}
}

// nextID allocates a process-unique id: UTC timestamp plus an atomic
// sequence, so ids created within the same second still sort by creation order.
func (m *AppealManager) nextID() string {
	n := atomic.AddUint64(&m.seq, 1)
	return fmt.Sprintf("APP-%s-%04d", time.Now().UTC().Format("20060102150405"), n)
}

// Create allocates a new appeal in status pending and registers it under
// the sender's appeal list.
func (m *AppealManager) Create(senderID, category, subject, description, priority string) *entities.Appeal {
	if priority == "" {
		priority = "normal"
	}
	now := time.Now().UTC()
	appeal := &entities.Appeal{
		ID:          m.nextID(),
		SenderID:    senderID,
		Category:    category,
		Subject:     subject,
		Description: description,
		Status:      entities.StatusPending,
		Priority:    priority,
		Attachments: []string{},
		Notes:       []entities.Note{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.mu.Lock()
	m.appeals[appeal.ID] = appeal
	m.senderAppeals[senderID] = append(m.senderAppeals[senderID], appeal.ID)
	m.mu.Unlock()

	return appeal.Clone()
}

// UpdateStatus moves an appeal to a new status if the transition is legal,
// bumping updated_at and appending a note when one is given.
func (m *AppealManager) UpdateStatus(appealID string, status entities.AppealStatus, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	appeal, ok := m.appeals[appealID]
	if !ok {
		return ErrUnknownAppeal
	}
	if !canTransition(appeal.Status, status) {
		return ErrInvalidTransition
	}

	appeal.Status = status
	appeal.UpdatedAt = time.Now().UTC()
	if note != "" {
		appeal.Notes = append(appeal.Notes, entities.Note{Timestamp: appeal.UpdatedAt, Text: note})
	}
	return nil
}

// Escalate moves the appeal to escalated, forces priority high and records
// the reason as a note.
func (m *AppealManager) Escalate(appealID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	appeal, ok := m.appeals[appealID]
	if !ok {
		return ErrUnknownAppeal
	}
	if !canTransition(appeal.Status, entities.StatusEscalated) {
		return ErrInvalidTransition
	}

	appeal.Status = entities.StatusEscalated
	appeal.Priority = "high"
	appeal.UpdatedAt = time.Now().UTC()
	appeal.Notes = append(appeal.Notes, entities.Note{
		Timestamp: appeal.UpdatedAt,
		Text:      "Escalated: " + reason,
	})
	return nil
}

// Close moves the appeal to closed and stores the resolution. A non-empty
// resolution is required; a closed appeal stays exactly as it was on failure.
func (m *AppealManager) Close(appealID, resolution string) error {
	if resolution == "" {
		return ErrEmptyResolution
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	appeal, ok := m.appeals[appealID]
	if !ok {
		return ErrUnknownAppeal
	}
	if !canTransition(appeal.Status, entities.StatusClosed) {
		return ErrInvalidTransition
	}

	appeal.Status = entities.StatusClosed
	appeal.Resolution = resolution
	appeal.UpdatedAt = time.Now().UTC()
	return nil
}

// AddAttachment appends a reference to the appeal's attachments. Allowed in
// any non-terminal status.
func (m *AppealManager) AddAttachment(appealID, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	appeal, ok := m.appeals[appealID]
	if !ok {
		return ErrUnknownAppeal
	}
	if appeal.Status == entities.StatusClosed {
		return ErrInvalidTransition
	}

	appeal.Attachments = append(appeal.Attachments, ref)
	appeal.UpdatedAt = time.Now().UTC()
	return nil
}

// Get returns a copy of the appeal, or false if the id is unknown.
func (m *AppealManager) Get(appealID string) (*entities.Appeal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	appeal, ok := m.appeals[appealID]
	if !ok {
		return nil, false
	}
	return appeal.Clone(), true
}

// ListForSender returns the sender's appeals in creation order.
func (m *AppealManager) ListForSender(senderID string) []*entities.Appeal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.senderAppeals[senderID]
	out := make([]*entities.Appeal, 0, len(ids))
	for _, id := range ids {
		if appeal, ok := m.appeals[id]; ok {
			out = append(out, appeal.Clone())
		}
	}
	return out
}

// All returns a copy of every appeal, for snapshotting.
func (m *AppealManager) All() []*entities.Appeal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entities.Appeal, 0, len(m.appeals))
	for _, appeal := range m.appeals {
		out = append(out, appeal.Clone())
	}
	return out
}

// Restore loads previously snapshotted appeals, typically at startup
// before any messages are processed. Later snapshots win on duplicate ids.
func (m *AppealManager) Restore(appeals []*entities.Appeal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, appeal := range appeals {
		if appeal == nil || appeal.ID == "" {
			continue
		}
		if _, exists := m.appeals[appeal.ID]; !exists {
			m.senderAppeals[appeal.SenderID] = append(m.senderAppeals[appeal.SenderID], appeal.ID)
		}
		m.appeals[appeal.ID] = appeal.Clone()
	}
}
