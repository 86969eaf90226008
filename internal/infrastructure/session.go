package infrastructure

import "sync"

// SenderSession carries the exclusive lock that serializes message
// processing for one sender.
type SenderSession struct {
	SenderID string
	mu       sync.Mutex
}

// Lock blocks until this sender's message slot is free.
func (s *SenderSession) Lock() { s.mu.Lock() }

// Unlock releases the sender's message slot.
func (s *SenderSession) Unlock() { s.mu.Unlock() }

// SessionManager hands out one session per sender key. Messages for the
// same sender are processed one at a time; distinct senders only contend
// on the short map lookup here.
type SessionManager struct {
	sessions map[string]*SenderSession
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*SenderSession),
	}
}

// GetOrCreateSession returns or creates the session for a sender.
func (sm *SessionManager) GetOrCreateSession(senderID string) *SenderSession {
	sm.mu.RLock()
	session, exists := sm.sessions[senderID]
	sm.mu.RUnlock()
	if exists {
		return session
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if session, exists = sm.sessions[senderID]; !exists {
		session = &SenderSession{SenderID: senderID}
		sm.sessions[senderID] = session
	}
	return session
}
