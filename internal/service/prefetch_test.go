package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukmats/visit-hearing/internal/hearing"
	"github.com/yukmats/visit-hearing/internal/repository/memory"
)

func TestPrefetcher_CachesComputedTurn(t *testing.T) {
	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, defaultPolicy)
	suggester := hearing.NewSuggestionGenerator(&stubProvider{response: suggestionJSON})
	p := NewPrefetcher(engine, suggester, turns, 5*time.Second)

	sessionID := uuid.New()
	p.Schedule(PrefetchInput{
		SessionID:      sessionID,
		TargetTurn:     1,
		Slots:          map[string]string{},
		AskedQuestions: []string{"How did today's visit go?"},
	})
	p.Close() // waits for the task

	turn, err := turns.Take(context.Background(), sessionID, 1)
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Equal(t, "Which company did you visit today?", turn.Question)
	assert.Len(t, turn.Suggestions, 5)
	assert.False(t, turn.GeneratedAt.IsZero())

	// Consumed: a second take misses
	turn, err = turns.Take(context.Background(), sessionID, 1)
	require.NoError(t, err)
	assert.Nil(t, turn)
}

func TestPrefetcher_SkipsCompleteDecisions(t *testing.T) {
	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, defaultPolicy)
	suggester := hearing.NewSuggestionGenerator(&stubProvider{response: suggestionJSON})
	p := NewPrefetcher(engine, suggester, turns, 5*time.Second)

	sessionID := uuid.New()
	p.Schedule(PrefetchInput{
		SessionID:      sessionID,
		TargetTurn:     3,
		LastAnswer:     "that's all from me",
		AskedQuestions: []string{"q1", "q2"},
	})
	p.Close()

	turn, err := turns.Take(context.Background(), sessionID, 3)
	require.NoError(t, err)
	assert.Nil(t, turn)
}

func TestPrefetcher_SkipsWhenSuggestionsFail(t *testing.T) {
	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, defaultPolicy)
	suggester := hearing.NewSuggestionGenerator(nil) // always errors
	p := NewPrefetcher(engine, suggester, turns, 5*time.Second)

	sessionID := uuid.New()
	p.Schedule(PrefetchInput{
		SessionID:      sessionID,
		TargetTurn:     1,
		AskedQuestions: []string{"q1"},
	})
	p.Close()

	turn, err := turns.Take(context.Background(), sessionID, 1)
	require.NoError(t, err)
	assert.Nil(t, turn)
}
