package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOTPStore(t *testing.T) {
	ctx := context.Background()

	t.Run("latest code wins", func(t *testing.T) {
		m := NewMemoryOTPStore(0)
		require.NoError(t, m.Save(ctx, "+254700000001", "111111"))
		require.NoError(t, m.Save(ctx, "+254700000001", "222222"))

		code, err := m.Get(ctx, "+254700000001")
		require.NoError(t, err)
		assert.Equal(t, "222222", code)
	})

	t.Run("unknown phone", func(t *testing.T) {
		m := NewMemoryOTPStore(0)
		_, err := m.Get(ctx, "+254700000009")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired code", func(t *testing.T) {
		m := NewMemoryOTPStore(time.Minute)
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return now }
		require.NoError(t, m.Save(ctx, "+254700000001", "111111"))

		now = now.Add(2 * time.Minute)
		_, err := m.Get(ctx, "+254700000001")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisOTPStore(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisOTPStore(client, 0)

	t.Run("save", func(t *testing.T) {
		mock.ExpectSet("otp:+254700000001", "123456", 0).SetVal("OK")

		err := s.Save(ctx, "+254700000001", "123456")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		mock.ExpectGet("otp:+254700000001").SetVal("123456")

		code, err := s.Get(ctx, "+254700000001")
		assert.NoError(t, err)
		assert.Equal(t, "123456", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectGet("otp:+254700000002").RedisNil()

		_, err := s.Get(ctx, "+254700000002")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
