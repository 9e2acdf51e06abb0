package auth

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// MemorySessionStore keeps sessions in process. Used in development and
// when no Redis address is configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]ExternalSession
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]ExternalSession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(ctx context.Context, sess ExternalSession) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty", errors.CategoryBadInput)
	}

	if sess.Expired(s.now()) {
		return errors.New("session is expired", errors.CategoryBadInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*ExternalSession, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if sess.Expired(s.now()) {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}

	return &sess, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
