package repository

import (
	"sync"
	"time"

	"appealbot/internal/entities"
)

// StepMenu is the initial conversation step for a fresh sender.
const StepMenu = "menu"

// ConversationStore keeps one ConversationState per sender. States are
// created lazily and cleared explicitly; clearing never touches appeals
// already created from an earlier draft. Returned states are copies, all
// mutation goes through Advance/AppendHistory/Clear.
type ConversationStore struct {
	mu     sync.RWMutex
	states map[string]*entities.ConversationState
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		states: make(map[string]*entities.ConversationState),
	}
}

func (s *ConversationStore) GetOrCreate(senderID string) *entities.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.locked(senderID))
}

// locked returns the live state for senderID, creating it if needed.
// Caller must hold s.mu.
func (s *ConversationStore) locked(senderID string) *entities.ConversationState {
	state, ok := s.states[senderID]
	if !ok {
		state = &entities.ConversationState{
			SenderID:     senderID,
			CurrentStep:  StepMenu,
			Draft:        make(map[string]string),
			History:      []entities.HistoryEntry{},
			LastActionAt: time.Now().UTC(),
		}
		s.states[senderID] = state
	}
	return state
}

// Advance sets the sender's current step and merges patch into the draft,
// overwriting existing keys.
func (s *ConversationStore) Advance(senderID, nextStep string, patch map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.locked(senderID)
	state.CurrentStep = nextStep
	for k, v := range patch {
		state.Draft[k] = v
	}
	state.LastActionAt = time.Now().UTC()
}

func (s *ConversationStore) AppendHistory(senderID, speaker, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.locked(senderID)
	state.History = append(state.History, entities.HistoryEntry{
		Timestamp: time.Now().UTC(),
		Speaker:   speaker,
		Text:      text,
	})
}

// Clear drops all conversation state for the sender. The next GetOrCreate
// starts over at the menu step with an empty draft.
func (s *ConversationStore) Clear(senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, senderID)
}

func cloneState(state *entities.ConversationState) *entities.ConversationState {
	cp := *state
	cp.Draft = make(map[string]string, len(state.Draft))
	for k, v := range state.Draft {
		cp.Draft[k] = v
	}
	cp.History = append([]entities.HistoryEntry(nil), state.History...)
	return &cp
}
