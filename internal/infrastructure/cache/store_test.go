package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	val, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	now = now.Add(time.Minute)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, s.Delete(ctx, "a", "b"))

	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "b")
	assert.False(t, ok)
}

func TestRedisStore_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "test:")

	mock.ExpectGet("test:clients:active").RedisNil()

	_, ok, err := s.Get(context.Background(), KeyActiveClients)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "test:")
	ctx := context.Background()

	mock.ExpectSet("test:k", []byte("payload"), time.Minute).SetVal("OK")
	mock.ExpectGet("test:k").SetVal("payload")
	mock.ExpectDel("test:k").SetVal(1)

	require.NoError(t, s.Set(ctx, "k", []byte("payload"), time.Minute))

	val, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(val))

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "")

	mock.ExpectGet("airsolutions:k").SetErr(errors.New("connection refused"))

	_, ok, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
}
