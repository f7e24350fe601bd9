package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/rishi-s8/agentbuilder/agent"
)

// ErrSessionNotFound is returned when a session ID has no live session.
var ErrSessionNotFound = errors.New("session not found")

// session pairs an agent with the mutex serializing its runs. The agent is
// single-threaded; concurrent requests against one session queue here.
type session struct {
	mu    sync.Mutex
	agent *agent.Agent
}

// SessionStore maps opaque session IDs to isolated agent instances. Map
// operations are the atomic units; runs happen outside the store lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*session{}}
}

// Create builds a fresh agent from the factory and registers it under a new
// opaque ID.
func (s *SessionStore) Create(factory agent.Factory) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{agent: factory()}
	s.mu.Unlock()
	return id
}

// Get returns the session for id.
func (s *SessionStore) Get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session for id.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
