package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukmats/visit-hearing/internal/domain"
)

func TestTurnCache_TakeIsAtMostOnce(t *testing.T) {
	cache := NewTurnCache(time.Minute)
	ctx := context.Background()
	sessionID := uuid.New()

	turn := &domain.CachedTurn{Question: "Did a budget figure come up?", AllowMultiple: false}
	require.NoError(t, cache.Put(ctx, sessionID, 2, turn))

	got, err := cache.Take(ctx, sessionID, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Did a budget figure come up?", got.Question)

	// Second take is a miss
	got, err = cache.Take(ctx, sessionID, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTurnCache_MissOnUnknownKey(t *testing.T) {
	cache := NewTurnCache(time.Minute)

	got, err := cache.Take(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTurnCache_KeysAreScopedBySessionAndTurn(t *testing.T) {
	cache := NewTurnCache(time.Minute)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, cache.Put(ctx, a, 1, &domain.CachedTurn{Question: "qa"}))
	require.NoError(t, cache.Put(ctx, b, 1, &domain.CachedTurn{Question: "qb"}))

	got, err := cache.Take(ctx, a, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "qa", got.Question)

	got, err = cache.Take(ctx, a, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTurnCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewTurnCache(10 * time.Millisecond)
	ctx := context.Background()
	sessionID := uuid.New()

	require.NoError(t, cache.Put(ctx, sessionID, 1, &domain.CachedTurn{Question: "stale"}))
	time.Sleep(25 * time.Millisecond)

	got, err := cache.Take(ctx, sessionID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTurnCache_OverwriteReplacesEntry(t *testing.T) {
	cache := NewTurnCache(time.Minute)
	ctx := context.Background()
	sessionID := uuid.New()

	require.NoError(t, cache.Put(ctx, sessionID, 1, &domain.CachedTurn{Question: "old"}))
	require.NoError(t, cache.Put(ctx, sessionID, 1, &domain.CachedTurn{Question: "new"}))

	got, err := cache.Take(ctx, sessionID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Question)
}
