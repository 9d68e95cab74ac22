package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// OTPStore keeps the last one-time code issued per phone. Saving a new code
// for a phone replaces the previous one.
type OTPStore interface {
	Save(ctx context.Context, phone, code string) error
	Get(ctx context.Context, phone string) (string, error)
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOTPStore is an in-process OTPStore. A zero ttl means codes never expire.
type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryOTPStore(ttl time.Duration) *MemoryOTPStore {
	return &MemoryOTPStore{
		codes: make(map[string]otpEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryOTPStore) Save(_ context.Context, phone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := otpEntry{code: code}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.codes[phone] = entry
	return nil
}

func (m *MemoryOTPStore) Get(_ context.Context, phone string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.codes[phone]
	if !ok {
		return "", fmt.Errorf("%w: no otp for %s", ErrNotFound, phone)
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.codes, phone)
		return "", fmt.Errorf("%w: otp for %s expired", ErrNotFound, phone)
	}
	return entry.code, nil
}

// RedisOTPStore keeps codes under otp:<phone>. A zero ttl stores keys without expiry.
type RedisOTPStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisOTPStore(client *redis.Client, ttl time.Duration) *RedisOTPStore {
	return &RedisOTPStore{redis: client, ttl: ttl}
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

func (r *RedisOTPStore) Save(ctx context.Context, phone, code string) error {
	if err := r.redis.Set(ctx, otpKey(phone), code, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *RedisOTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := r.redis.Get(ctx, otpKey(phone)).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("%w: no otp for %s", ErrNotFound, phone)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read otp: %w", err)
	}
	return code, nil
}
