package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yukmats/visit-hearing/internal/domain"
)

// TurnCache is the in-process fallback for the prefetch cache, used when
// Redis is unavailable. Same contract as the Redis implementation: TTL
// expiry and at-most-once Take.
type TurnCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	turn      *domain.CachedTurn
	expiresAt time.Time
}

// NewTurnCache creates an in-memory turn cache
func NewTurnCache(ttl time.Duration) *TurnCache {
	return &TurnCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func key(sessionID uuid.UUID, turnIndex int) string {
	return fmt.Sprintf("%s:%d", sessionID.String(), turnIndex)
}

// Put stores a prefetched turn under (sessionID, turnIndex)
func (c *TurnCache) Put(ctx context.Context, sessionID uuid.UUID, turnIndex int, turn *domain.CachedTurn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked()
	c.entries[key(sessionID, turnIndex)] = entry{
		turn:      turn,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Take reads and deletes a prefetched turn; expired entries are a miss
func (c *TurnCache) Take(ctx context.Context, sessionID uuid.UUID, turnIndex int) (*domain.CachedTurn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(sessionID, turnIndex)
	e, ok := c.entries[k]
	if !ok {
		return nil, nil
	}
	delete(c.entries, k)

	if time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.turn, nil
}

// sweepLocked drops expired entries so abandoned sessions do not leak
func (c *TurnCache) sweepLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
