package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/core/session"
)

const keyPrefix = "portal:session:"

var sessionKeys = []string{ports.KeyAuthToken, ports.KeyUser, ports.KeyExpiresAt}

// SessionStore persists the session under one Redis key per well-known field.
// Key format: portal:session:<field>. Keys expire with the session.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	vals, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	byField := make(map[string]string, len(vals))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			byField[sessionKeys[i]] = str
		}
	}
	return session.FromFields(func(key string) (string, bool) {
		v, ok := byField[key]
		return v, ok
	})
}

// Save writes every field atomically. An already expired session is not
// stored.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	fields, err := session.Fields(sess)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.keys()...)
		for field, v := range fields {
			pipe.Set(ctx, s.key(field), v, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(field string) string {
	return keyPrefix + field
}

func (s *SessionStore) keys() []string {
	out := make([]string, len(sessionKeys))
	for i, f := range sessionKeys {
		out[i] = s.key(f)
	}
	return out
}
