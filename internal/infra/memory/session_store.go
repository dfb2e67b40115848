package memory

import (
	"sync"

	"quiz-reader/internal/app"
)

// SessionStore keeps quiz sessions in process; used when no Redis is configured.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(quizID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[quizID]
	if !ok {
		session = app.NewSession(quizID)
		s.sessions[quizID] = session
	}
	return session
}

func (s *SessionStore) Get(quizID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[quizID]
	return session, ok
}

// DeleteIfEmpty drops the session once its last participant has left.
func (s *SessionStore) DeleteIfEmpty(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[quizID]; ok && session.IsEmpty() {
		delete(s.sessions, quizID)
	}
}
