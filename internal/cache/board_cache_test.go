package cache

import (
	"context"
	"testing"
	"time"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*BoardCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBoardCache(client, ttl), mr
}

func TestBoardCacheMissSetHit(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	board := dom.Board{
		Columns: []dom.Column{{ID: 1, Title: "Todo"}},
		Tasks:   []dom.Task{{ID: 1, Title: "Write spec", Status: 1, Description: "d"}},
	}
	require.NoError(t, c.Set(ctx, board))
	if ttl := mr.TTL(keyBoard); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, board, *got)
}

func TestBoardCacheInvalidate(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, dom.Board{}))
	require.True(t, mr.Exists(keyBoard))
	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(keyBoard))
}

func TestBoardCacheCorruptEntryDropped(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(keyBoard, "{not json"))

	got, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(keyBoard))
}

func TestBoardCacheZeroTTLDisablesWrites(t *testing.T) {
	c, mr := newTestCache(t, 0)
	require.NoError(t, c.Set(context.Background(), dom.Board{}))
	assert.False(t, mr.Exists(keyBoard))
}
