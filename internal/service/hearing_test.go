package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/hearing"
	"github.com/yukmats/visit-hearing/internal/repository/memory"
)

const suggestionJSON = `["Positive and engaged", "They asked detailed questions", "Some hesitation on pricing", "Agreed on next steps", "Hard to read"]`

// newTestService wires a service on deterministic extraction and decision
// paths (nil providers) with a canned suggestion provider.
func newTestService(t *testing.T, policy hearing.TurnPolicy, reports domain.ReportRepository) *HearingService {
	t.Helper()

	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, policy)
	suggester := hearing.NewSuggestionGenerator(&stubProvider{response: suggestionJSON})
	prefetcher := NewPrefetcher(engine, suggester, turns, 5*time.Second)

	svc := NewHearingService(
		hearing.NewExtractor(nil),
		engine,
		suggester,
		hearing.NewTextCorrector(nil),
		turns,
		reports,
		prefetcher,
	)
	t.Cleanup(svc.Close)
	return svc
}

var defaultPolicy = hearing.TurnPolicy{MinTurns: 6, MaxTurns: 8, TotalTurns: 5}

func TestStartSession_NoReferenceData(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)

	resp, err := svc.StartSession(context.Background(), StartRequest{DataSource: domain.SourceNone})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.SessionID)
	assert.Equal(t, 0, resp.TurnIndex)
	assert.NotEmpty(t, resp.Question)
	assert.Len(t, resp.Suggestions, 5)
	assert.Empty(t, resp.InitialSlots)
	assert.Equal(t, []string{resp.Question}, resp.AskedQuestions)
}

func TestStartSession_SeedsSlotsFromReference(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)

	resp, err := svc.StartSession(context.Background(), StartRequest{
		Reference: domain.ReferenceData{
			"customer":     "Acme Corp",
			"project":      "ERP renewal",
			"participants": "Tanaka, Suzuki",
		},
		DataSource: domain.SourceMeeting,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", resp.InitialSlots["customer"])
	assert.Equal(t, "ERP renewal", resp.InitialSlots["project"])
	// participants is not seeded; it must come from the conversation
	assert.Empty(t, resp.InitialSlots["participants"])
}

func TestStartSession_SuggestionFailureDoesNotBlock(t *testing.T) {
	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, defaultPolicy)
	suggester := hearing.NewSuggestionGenerator(nil) // always errors
	prefetcher := NewPrefetcher(engine, suggester, turns, time.Second)
	svc := NewHearingService(hearing.NewExtractor(nil), engine, suggester,
		hearing.NewTextCorrector(nil), turns, nil, prefetcher)
	t.Cleanup(svc.Close)

	resp, err := svc.StartSession(context.Background(), StartRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Question)
	assert.Empty(t, resp.Suggestions)
}

func TestSubmitAnswer_AdvancesTurn(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	resp, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 0,
		Answer:    "The budget is about 10 million yen, and they want a decision by March.",
	})
	require.NoError(t, err)

	assert.False(t, resp.Completed)
	assert.Equal(t, 1, resp.TurnIndex)
	assert.NotEmpty(t, resp.Slots["budget"])
	assert.NotEmpty(t, resp.Slots["schedule"])
	// customer is the highest-priority unfilled slot
	assert.Equal(t, "Which company did you visit today?", resp.Question)
	assert.Len(t, resp.AskedQuestions, 2)
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)

	_, err := svc.SubmitAnswer(context.Background(), SubmitRequest{
		SessionID: uuid.New(),
		TurnIndex: 0,
		Answer:    "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswer_TurnMismatch(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 3,
		Answer:    "hello",
	})
	assert.ErrorIs(t, err, ErrTurnMismatch)
}

func TestSubmitAnswer_FillOncePolicyThroughService(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	first, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 0,
		Answer:    "Budget came up, about 10 million yen.",
	})
	require.NoError(t, err)
	require.Contains(t, first.Slots["budget"], "10 million yen")

	second, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 1,
		Answer:    "Actually they later said about 20 million yen.",
	})
	require.NoError(t, err)

	// budget is fill-once: the first extracted value survives
	assert.Contains(t, second.Slots["budget"], "10 million yen")
}

func TestSubmitAnswer_StopIntentCompletes(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	resp, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 0,
		Answer:    "That's all for today, thanks.",
	})
	require.NoError(t, err)

	assert.True(t, resp.Completed)
	assert.NotNil(t, resp.Slots)

	// The session is gone once completed
	_, err = svc.SubmitAnswer(ctx, SubmitRequest{SessionID: start.SessionID, TurnIndex: 1, Answer: "more"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswer_HardCapForcesCompletion(t *testing.T) {
	policy := hearing.TurnPolicy{MinTurns: 1, MaxTurns: 2, TotalTurns: 2}
	svc := newTestService(t, policy, nil)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	first, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 0,
		Answer:    "We met their CTO.",
	})
	require.NoError(t, err)
	require.False(t, first.Completed)
	require.Equal(t, 1, first.TurnIndex)

	second, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 1,
		Answer:    "Nothing more concrete yet on schedule.",
	})
	require.NoError(t, err)

	// The cap is reached regardless of unfilled slots
	assert.True(t, second.Completed)
}

func TestSubmitAnswer_PersistsReportOnCompletion(t *testing.T) {
	reports := new(MockReportRepository)
	reports.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool {
		return r.SessionID != uuid.Nil && len(r.Transcript) > 0
	})).Return(nil)

	svc := newTestService(t, defaultPolicy, reports)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, StartRequest{})
	require.NoError(t, err)

	resp, err := svc.SubmitAnswer(ctx, SubmitRequest{
		SessionID: start.SessionID,
		TurnIndex: 0,
		Answer:    "Budget is 5 million yen. That's all for now.",
	})
	require.NoError(t, err)
	require.True(t, resp.Completed)

	reports.AssertExpectations(t)
}

func TestGetSuggestions_ErrorPropagates(t *testing.T) {
	turns := memory.NewTurnCache(time.Minute)
	engine := hearing.NewDecisionEngine(nil, defaultPolicy)
	suggester := hearing.NewSuggestionGenerator(nil)
	prefetcher := NewPrefetcher(engine, suggester, turns, time.Second)
	svc := NewHearingService(hearing.NewExtractor(nil), engine, suggester,
		hearing.NewTextCorrector(nil), turns, nil, prefetcher)
	t.Cleanup(svc.Close)

	_, err := svc.GetSuggestions(context.Background(), hearing.SuggestInput{
		Question: "What concerns were raised?",
	})
	assert.ErrorIs(t, err, hearing.ErrSuggestionsUnavailable)
}

func TestCorrectText(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)

	out := svc.CorrectText(context.Background(), "um we agreed on a follow-up demo")
	assert.Equal(t, "we agreed on a follow-up demo.", out)
}

func TestListReports_NoStoreConfigured(t *testing.T) {
	svc := newTestService(t, defaultPolicy, nil)

	_, err := svc.ListReports(context.Background(), 10, 0)
	assert.Error(t, err)

	_, err = svc.GetReport(context.Background(), uuid.New())
	assert.Error(t, err)
}
