package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-reader/internal/app"
)

// SessionStore keeps sessions in process and marks live quizzes in Redis,
// so other instances can tell which quizzes are being played.
// The in-process map still owns the broadcast logic; Redis only carries
// liveness keys that expire when a quiz goes quiet.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker, refreshed on every join
	_ = s.client.Set(context.Background(), s.key(quizID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(quizID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[quizID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[quizID]
	if !ok || !session.IsEmpty() {
		return
	}
	delete(s.sessions, quizID)
	_ = s.client.Del(context.Background(), s.key(quizID)).Err()
}

// Live reports whether any instance marked quizID as being played.
func (s *SessionStore) Live(ctx context.Context, quizID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(quizID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) key(quizID string) string {
	return "quiz:session:" + quizID
}
