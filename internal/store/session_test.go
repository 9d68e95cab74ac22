package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessionStore(time.Hour)

	sess, err := m.Create(ctx, "+254700000001")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "+254700000001", got.Phone)

	other, err := m.Create(ctx, "+254700000002")
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, other.ID)

	require.NoError(t, m.Delete(ctx, sess.ID))
	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAuth)

	got, err = m.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "+254700000002", got.Phone)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySessionStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	sess, err := m.Create(ctx, "+254700000001")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisSessionStore(client, time.Hour)

	t.Run("get", func(t *testing.T) {
		data, _ := json.Marshal(Session{ID: "abc", Phone: "+254700000001"})
		mock.ExpectGet("session:abc").SetVal(string(data))

		sess, err := s.Get(ctx, "abc")
		assert.NoError(t, err)
		assert.Equal(t, "+254700000001", sess.Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown", func(t *testing.T) {
		mock.ExpectGet("session:nope").RedisNil()

		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrAuth)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectDel("session:abc").SetVal(1)

		assert.NoError(t, s.Delete(ctx, "abc"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
