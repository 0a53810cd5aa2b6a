package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/hearing"
)

// PrefetchInput is an immutable snapshot of session state taken at schedule
// time. Background work never touches live session state.
type PrefetchInput struct {
	SessionID      uuid.UUID
	TargetTurn     int
	Slots          map[string]string
	LastAnswer     string
	AskedQuestions []string
	Reference      domain.ReferenceData
	DataSource     domain.DataSource
}

// Prefetcher speculatively computes future turns in the background and
// stores them in the turn cache. Tasks run under a bounded context; their
// failures are logged and otherwise invisible - a failed prefetch is just a
// cache miss later.
type Prefetcher struct {
	engine    *hearing.DecisionEngine
	suggester *hearing.SuggestionGenerator
	turns     domain.TurnStore
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPrefetcher creates a prefetcher. Close cancels outstanding tasks.
func NewPrefetcher(engine *hearing.DecisionEngine, suggester *hearing.SuggestionGenerator, turns domain.TurnStore, timeout time.Duration) *Prefetcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Prefetcher{
		engine:    engine,
		suggester: suggester,
		turns:     turns,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Schedule launches a detached computation of the target turn. It returns
// immediately; the response path never waits for it.
func (p *Prefetcher) Schedule(in PrefetchInput) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).
					Str("session_id", in.SessionID.String()).
					Msg("prefetch task panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
		defer cancel()

		p.run(ctx, in)
	}()
}

func (p *Prefetcher) run(ctx context.Context, in PrefetchInput) {
	d := p.engine.Decide(ctx, hearing.DecideInput{
		TurnIndex:      in.TargetTurn - 1,
		Slots:          in.Slots,
		LastAnswer:     in.LastAnswer,
		AskedQuestions: in.AskedQuestions,
		Reference:      in.Reference,
	})
	if d.IsComplete || d.NextQuestion == "" {
		// Nothing to cache; the synchronous path will signal completion
		return
	}

	set, err := p.suggester.Suggest(ctx, hearing.SuggestInput{
		Question:   d.NextQuestion,
		Reference:  in.Reference,
		Slots:      in.Slots,
		DataSource: in.DataSource,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("session_id", in.SessionID.String()).
			Int("turn", in.TargetTurn).
			Msg("prefetch suggestion generation failed")
		return
	}

	turn := &domain.CachedTurn{
		Question:      d.NextQuestion,
		Suggestions:   set.Suggestions,
		AllowMultiple: set.AllowMultiple,
		GeneratedAt:   time.Now(),
	}
	if err := p.turns.Put(ctx, in.SessionID, in.TargetTurn, turn); err != nil {
		log.Warn().Err(err).
			Str("session_id", in.SessionID.String()).
			Int("turn", in.TargetTurn).
			Msg("failed to store prefetched turn")
		return
	}

	log.Debug().
		Str("session_id", in.SessionID.String()).
		Int("turn", in.TargetTurn).
		Msg("prefetched turn cached")
}

// Close cancels outstanding prefetch tasks and waits for them to exit
func (p *Prefetcher) Close() {
	p.cancel()
	p.wg.Wait()
}
