package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/hearing"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrTurnMismatch     = errors.New("turn index does not match session state")
)

// openingQuestion starts every hearing; turn 0 is always this generic probe
const openingQuestion = "How did today's visit go? Tell me whatever stands out first."

// HearingService owns session state and drives the interview loop:
// extraction, next-question decision, suggestion generation and the
// speculative prefetch of future turns.
type HearingService struct {
	extractor  *hearing.Extractor
	engine     *hearing.DecisionEngine
	suggester  *hearing.SuggestionGenerator
	corrector  *hearing.TextCorrector
	turns      domain.TurnStore
	reports    domain.ReportRepository // nil when no report store is configured
	prefetcher *Prefetcher

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

// sessionEntry serializes request handling per session: concurrent submits
// for the same session queue behind the entry mutex.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

// NewHearingService creates the session orchestrator
func NewHearingService(
	extractor *hearing.Extractor,
	engine *hearing.DecisionEngine,
	suggester *hearing.SuggestionGenerator,
	corrector *hearing.TextCorrector,
	turns domain.TurnStore,
	reports domain.ReportRepository,
	prefetcher *Prefetcher,
) *HearingService {
	return &HearingService{
		extractor:  extractor,
		engine:     engine,
		suggester:  suggester,
		corrector:  corrector,
		turns:      turns,
		reports:    reports,
		prefetcher: prefetcher,
		sessions:   make(map[uuid.UUID]*sessionEntry),
	}
}

// StartRequest opens a new hearing session
type StartRequest struct {
	Reference  domain.ReferenceData `json:"reference_data,omitempty"`
	DataSource domain.DataSource    `json:"data_source,omitempty"`
}

// StartResponse is the first turn of a new session
type StartResponse struct {
	SessionID      uuid.UUID         `json:"session_id"`
	Question       string            `json:"question"`
	TurnIndex      int               `json:"turn_index"`
	TotalTurns     int               `json:"total_turns"`
	Suggestions    []string          `json:"suggestions"`
	AllowMultiple  bool              `json:"allow_multiple"`
	AskedQuestions []string          `json:"asked_questions"`
	InitialSlots   map[string]string `json:"initial_slots"`
}

// StartSession creates a session, computes turn 0 synchronously and
// schedules a prefetch of turn 1.
func (s *HearingService) StartSession(ctx context.Context, req StartRequest) (*StartResponse, error) {
	now := time.Now()
	session := &domain.Session{
		ID:             uuid.New(),
		TurnIndex:      0,
		TotalTurns:     s.engine.Policy().TotalTurns,
		Slots:          seedSlots(req.Reference),
		AskedQuestions: []string{openingQuestion},
		Status:         domain.StatusActive,
		Reference:      req.Reference,
		DataSource:     req.DataSource,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Suggestions for turn 0 are best effort: a failure here must not
	// block the interview from starting.
	var suggestions []string
	allowMultiple := true
	set, err := s.suggester.Suggest(ctx, hearing.SuggestInput{
		Question:   openingQuestion,
		Reference:  req.Reference,
		Slots:      session.Slots,
		DataSource: req.DataSource,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).
			Msg("opening suggestions unavailable")
	} else {
		suggestions = set.Suggestions
		allowMultiple = set.AllowMultiple
	}

	session.History = append(session.History, domain.ConversationTurn{
		Question:      openingQuestion,
		Suggestions:   suggestions,
		AllowMultiple: allowMultiple,
	})

	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()

	// Speculatively compute turn 1 while the user is answering turn 0
	s.prefetcher.Schedule(PrefetchInput{
		SessionID:      session.ID,
		TargetTurn:     1,
		Slots:          copySlots(session.Slots),
		AskedQuestions: append([]string(nil), session.AskedQuestions...),
		Reference:      req.Reference,
		DataSource:     req.DataSource,
	})

	log.Info().Str("session_id", session.ID.String()).
		Str("data_source", string(req.DataSource)).
		Msg("hearing session started")

	return &StartResponse{
		SessionID:      session.ID,
		Question:       openingQuestion,
		TurnIndex:      0,
		TotalTurns:     session.TotalTurns,
		Suggestions:    suggestions,
		AllowMultiple:  allowMultiple,
		AskedQuestions: session.AskedQuestions,
		InitialSlots:   session.Slots,
	}, nil
}

// SubmitRequest carries one answer. The server's session state is
// authoritative; Slots and AskedQuestions echoes from the client are
// accepted for interface compatibility but ignored.
type SubmitRequest struct {
	SessionID  uuid.UUID
	TurnIndex  int
	Answer     string
	Reference  domain.ReferenceData
	DataSource domain.DataSource
}

// SubmitResponse is either the next turn or the completion signal
type SubmitResponse struct {
	Completed      bool              `json:"completed"`
	Slots          map[string]string `json:"slots"`
	Question       string            `json:"question,omitempty"`
	TurnIndex      int               `json:"turn_index,omitempty"`
	TotalTurns     int               `json:"total_turns,omitempty"`
	AskedQuestions []string          `json:"asked_questions,omitempty"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	AllowMultiple  bool              `json:"allow_multiple,omitempty"`
}

// SubmitAnswer processes the answer for the session's current turn:
// extract, merge, decide the next step (prefetch cache first), advance.
func (s *HearingService) SubmitAnswer(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	s.mu.Lock()
	entry, ok := s.sessions[req.SessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	if session.Status == domain.StatusCompleted {
		return nil, ErrSessionCompleted
	}
	if req.TurnIndex != session.TurnIndex {
		return nil, ErrTurnMismatch
	}

	// Extract and merge; fill-once slots keep their first value,
	// override slots track the latest extraction
	delta := s.extractor.Extract(ctx, req.Answer, session.LastQuestion(), session.Slots)
	session.Slots = domain.MergeSlots(session.Slots, delta)
	session.History[len(session.History)-1].Answer = req.Answer
	session.UpdatedAt = time.Now()

	next, completed := s.nextTurn(ctx, session, req.Answer)
	if completed {
		return s.complete(ctx, session), nil
	}

	session.AskedQuestions = append(session.AskedQuestions, next.Question)
	session.History = append(session.History, domain.ConversationTurn{
		Question:      next.Question,
		Suggestions:   next.Suggestions,
		AllowMultiple: next.AllowMultiple,
	})
	session.TurnIndex++

	// Speculatively compute the turn after the one just returned
	s.prefetcher.Schedule(PrefetchInput{
		SessionID:      session.ID,
		TargetTurn:     session.TurnIndex + 1,
		Slots:          copySlots(session.Slots),
		LastAnswer:     req.Answer,
		AskedQuestions: append([]string(nil), session.AskedQuestions...),
		Reference:      session.Reference,
		DataSource:     session.DataSource,
	})

	return &SubmitResponse{
		Completed:      false,
		Slots:          session.Slots,
		Question:       next.Question,
		TurnIndex:      session.TurnIndex,
		TotalTurns:     session.TotalTurns,
		AskedQuestions: session.AskedQuestions,
		Suggestions:    next.Suggestions,
		AllowMultiple:  next.AllowMultiple,
	}, nil
}

// nextTurn resolves the next turn: hard completion conditions first, then
// the prefetch cache, then a synchronous decision. Consumption never waits
// for an in-flight prefetch - not finished means miss.
func (s *HearingService) nextTurn(ctx context.Context, session *domain.Session, answer string) (*domain.CachedTurn, bool) {
	policy := s.engine.Policy()
	turnsTaken := session.TurnIndex + 1

	if hearing.DetectStopIntent(answer) {
		log.Info().Str("session_id", session.ID.String()).Msg("stop intent detected")
		return nil, true
	}
	if turnsTaken >= policy.MaxTurns {
		log.Info().Str("session_id", session.ID.String()).
			Int("turns", turnsTaken).Msg("hard turn cap reached")
		return nil, true
	}

	if cached, err := s.turns.Take(ctx, session.ID, session.TurnIndex+1); err == nil && cached != nil {
		log.Debug().Str("session_id", session.ID.String()).
			Int("turn", session.TurnIndex+1).Msg("prefetched turn consumed")
		return cached, false
	}

	// Cache miss: compute the turn synchronously
	d := s.engine.Decide(ctx, hearing.DecideInput{
		TurnIndex:      session.TurnIndex,
		Slots:          session.Slots,
		LastAnswer:     answer,
		AskedQuestions: session.AskedQuestions,
		Reference:      session.Reference,
	})
	if d.IsComplete {
		return nil, true
	}

	turn := &domain.CachedTurn{Question: d.NextQuestion, AllowMultiple: true}
	set, err := s.suggester.Suggest(ctx, hearing.SuggestInput{
		Question:   d.NextQuestion,
		Reference:  session.Reference,
		Slots:      session.Slots,
		DataSource: session.DataSource,
		History:    session.History,
	})
	if err != nil {
		// Question still goes out; the client just gets no candidates
		log.Warn().Err(err).Str("session_id", session.ID.String()).
			Msg("suggestions unavailable for next turn")
	} else {
		turn.Suggestions = set.Suggestions
		turn.AllowMultiple = set.AllowMultiple
	}
	return turn, false
}

// complete transitions the session to its terminal state, persists the
// report when a store is configured and drops the session from the registry.
func (s *HearingService) complete(ctx context.Context, session *domain.Session) *SubmitResponse {
	session.Status = domain.StatusCompleted
	session.UpdatedAt = time.Now()

	if s.reports != nil {
		report := &domain.Report{
			ID:         uuid.New(),
			SessionID:  session.ID,
			Slots:      session.Slots,
			Transcript: session.History,
			CreatedAt:  time.Now(),
		}
		if err := s.reports.Create(ctx, report); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).
				Msg("failed to persist hearing report")
		}
	}

	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	log.Info().Str("session_id", session.ID.String()).
		Int("turns", session.TurnIndex+1).
		Msg("hearing session completed")

	return &SubmitResponse{Completed: true, Slots: session.Slots}
}

// GetSuggestions generates candidates for an arbitrary question. Failures
// propagate: this path has no fallback.
func (s *HearingService) GetSuggestions(ctx context.Context, in hearing.SuggestInput) (*hearing.SuggestionSet, error) {
	return s.suggester.Suggest(ctx, in)
}

// CorrectText cleans up a raw transcript
func (s *HearingService) CorrectText(ctx context.Context, text string) string {
	return s.corrector.Correct(ctx, text)
}

// ListReports returns persisted reports, newest first
func (s *HearingService) ListReports(ctx context.Context, limit, offset int) ([]domain.Report, error) {
	if s.reports == nil {
		return nil, errors.New("report store not configured")
	}
	return s.reports.List(ctx, limit, offset)
}

// GetReport returns one persisted report
func (s *HearingService) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	if s.reports == nil {
		return nil, errors.New("report store not configured")
	}
	return s.reports.Get(ctx, id)
}

// Close stops background prefetch work
func (s *HearingService) Close() {
	s.prefetcher.Close()
}

// seedSlots pre-fills slots from reference data fields that map directly
// onto the schema
func seedSlots(ref domain.ReferenceData) map[string]string {
	slots := make(map[string]string)
	for _, m := range []struct{ refKey, slot string }{
		{"customer", "customer"},
		{"company", "customer"},
		{"project", "project"},
	} {
		if v := ref[m.refKey]; v != "" && slots[m.slot] == "" {
			slots[m.slot] = v
		}
	}
	return slots
}

func copySlots(slots map[string]string) map[string]string {
	cp := make(map[string]string, len(slots))
	for k, v := range slots {
		cp[k] = v
	}
	return cp
}
