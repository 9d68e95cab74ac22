package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Session binds an opaque session id to the phone that verified an OTP.
type Session struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore is the session table. Get returns ErrAuth for unknown or
// expired sessions.
type SessionStore interface {
	Create(ctx context.Context, phone string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

func newSession(phone string, now time.Time, ttl time.Duration) Session {
	return Session{
		ID:        uuid.NewString(),
		Phone:     phone,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Create(_ context.Context, phone string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := newSession(phone, m.now(), m.ttl)
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: unknown session", ErrAuth)
	}
	if m.now().After(sess.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, fmt.Errorf("%w: session expired", ErrAuth)
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// RedisSessionStore keeps sessions as JSON under session:<id>, expiring with the session.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *RedisSessionStore) Create(ctx context.Context, phone string) (Session, error) {
	sess := newSession(phone, time.Now(), r.ttl)
	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}
	if err := r.redis.Set(ctx, sessionKey(sess.ID), data, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return Session{}, fmt.Errorf("%w: unknown session", ErrAuth)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.redis.Del(ctx, sessionKey(id)).Err()
}
