package session

import "sync"

// InMemoryStore keeps sessions in a process-local map. It is safe for
// concurrent access and suited for interactive runs, tests and ephemeral
// demo servers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Get returns the session with the given id, creating it lazily if absent.
func (s *InMemoryStore) Get(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = New(id)
	s.sessions[sess.ID] = sess
	return sess
}

// Delete discards a session and its history.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
