package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*RedisStorage)(nil)

func newStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStorage(NewRedisClient(mr.Addr(), "", 0), "limiter:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorage_GetSetDelete(t *testing.T) {
	s, mr := newStorage(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("1.2.3.4", []byte("hits"), time.Minute))
	assert.True(t, mr.Exists("limiter:1.2.3.4"))

	val, err = s.Get("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, []byte("hits"), val)

	require.NoError(t, s.Delete("1.2.3.4"))
	val, err = s.Get("1.2.3.4")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Expiry(t *testing.T) {
	s, mr := newStorage(t)

	require.NoError(t, s.Set("k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_ResetKeepsOtherPrefixes(t *testing.T) {
	s, mr := newStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("session:x", "keep"))

	require.NoError(t, s.Reset())

	assert.False(t, mr.Exists("limiter:a"))
	assert.False(t, mr.Exists("limiter:b"))
	assert.True(t, mr.Exists("session:x"))
}
