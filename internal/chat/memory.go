package chat

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	messages map[string][]Message
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		messages: make(map[string][]Message),
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *MemoryStore) ListSessions(_ context.Context, userID string) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Session{}
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[m.SessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.messages[m.SessionID] = append(s.messages[m.SessionID], m)
	if m.CreatedAt.After(session.UpdatedAt) {
		session.UpdatedAt = m.CreatedAt
		s.sessions[m.SessionID] = session
	}
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages[sessionID]))
	copy(out, s.messages[sessionID])
	return out, nil
}
