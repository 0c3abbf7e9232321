package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyBoard = "board:snapshot"

// BoardCache caches the board snapshot in Redis.
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBoardCache returns a new BoardCache.
func NewBoardCache(rdb *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot or nil if miss.
func (c *BoardCache) Get(ctx context.Context) (*dom.Board, error) {
	b, err := c.rdb.Get(ctx, keyBoard).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var board dom.Board
	if err := json.Unmarshal(b, &board); err != nil {
		// Corrupt entry: drop it so the next read repopulates.
		_ = c.rdb.Del(ctx, keyBoard).Err()
		return nil, err
	}
	return &board, nil
}

// Set stores the snapshot in cache.
func (c *BoardCache) Set(ctx context.Context, board dom.Board) error {
	if c.ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyBoard, b, c.ttl).Err()
}

// Invalidate removes the snapshot (cache invalidation on write).
func (c *BoardCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyBoard).Err()
}
