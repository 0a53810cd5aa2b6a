package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CachedTurn is a precomputed future turn stored by the prefetch path
type CachedTurn struct {
	Question      string    `json:"question"`
	Suggestions   []string  `json:"suggestions"`
	AllowMultiple bool      `json:"allow_multiple"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// TurnStore is the volatile cache of prefetched turns, keyed by
// (sessionID, turnIndex). Entries expire after a TTL and are delivered
// at most once: Take is a single read-and-delete, returning (nil, nil)
// on a miss.
type TurnStore interface {
	Put(ctx context.Context, sessionID uuid.UUID, turnIndex int, turn *CachedTurn) error
	Take(ctx context.Context, sessionID uuid.UUID, turnIndex int) (*CachedTurn, error)
}
