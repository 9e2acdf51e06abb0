// Package redis stores external sessions in Redis.
package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"

	auth "github.com/goliatone/go-guest-auth"
)

const DefaultPrefix = "session:"

// SessionStore is a Redis backed auth.SessionStore. Keys expire with the
// session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store using the default key prefix
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultPrefix)
}

// NewSessionStoreWithPrefix creates a store with a custom key prefix
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess auth.ExternalSession) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty", errors.CategoryBadInput)
	}

	// zero ttl keeps the key until deleted
	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return errors.New("session is expired", errors.CategoryBadInput)
		}
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "marshal session")
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return auth.ExternalStoreError(err, "redis set session")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*auth.ExternalSession, error) {
	if id == "" {
		return nil, auth.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, auth.ExternalStoreError(err, "redis get session")
	}

	sess := &auth.ExternalSession{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, auth.ExternalStoreError(err, "unmarshal session")
	}

	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, auth.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return auth.ExternalStoreError(err, "redis delete session")
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}
