package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yukmats/visit-hearing/internal/domain"
)

const turnCachePrefix = "hearing:turn:"

// TurnCache stores prefetched turns in Redis with a TTL. Take uses GETDEL
// so each entry is delivered at most once even across instances.
type TurnCache struct {
	client *Client
	ttl    time.Duration
}

// NewTurnCache creates a Redis-backed turn cache
func NewTurnCache(client *Client, ttl time.Duration) *TurnCache {
	return &TurnCache{client: client, ttl: ttl}
}

func turnKey(sessionID uuid.UUID, turnIndex int) string {
	return fmt.Sprintf("%s%s:%d", turnCachePrefix, sessionID.String(), turnIndex)
}

// Put stores a prefetched turn under (sessionID, turnIndex)
func (c *TurnCache) Put(ctx context.Context, sessionID uuid.UUID, turnIndex int, turn *domain.CachedTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal cached turn: %w", err)
	}
	return c.client.rdb.Set(ctx, turnKey(sessionID, turnIndex), data, c.ttl).Err()
}

// Take reads and deletes a prefetched turn. Any Redis-side failure is
// treated as a miss so the caller falls back to synchronous computation.
func (c *TurnCache) Take(ctx context.Context, sessionID uuid.UUID, turnIndex int) (*domain.CachedTurn, error) {
	data, err := c.client.rdb.GetDel(ctx, turnKey(sessionID, turnIndex)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, nil // treat errors as a cache miss
	}

	var turn domain.CachedTurn
	if err := json.Unmarshal(data, &turn); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached turn: %w", err)
	}
	return &turn, nil
}
