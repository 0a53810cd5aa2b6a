package hearing

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/llm"
)

// TurnPolicy holds the turn-count configuration. MaxTurns is the single
// authoritative hard cap: both the forced-completion check and the prompt
// guidance read it.
type TurnPolicy struct {
	MinTurns   int // no completion before this many questions, except on stop intent
	MaxTurns   int // hard cap, completion forced regardless of missing slots
	TotalTurns int // soft target shown to the client
}

// DecideInput is the session snapshot the decision runs on
type DecideInput struct {
	TurnIndex      int
	Slots          map[string]string
	LastAnswer     string
	AskedQuestions []string
	Reference      domain.ReferenceData
}

// Decision is the outcome of one next-question decision
type Decision struct {
	IsComplete   bool
	NextQuestion string
}

// DecisionEngine decides whether the hearing is complete or what to ask
// next. LLM-backed with a deterministic heuristic fallback; never errors.
type DecisionEngine struct {
	provider llm.Provider
	policy   TurnPolicy
}

// NewDecisionEngine creates a decision engine. provider may be nil, in
// which case only the heuristic path runs.
func NewDecisionEngine(provider llm.Provider, policy TurnPolicy) *DecisionEngine {
	return &DecisionEngine{provider: provider, policy: policy}
}

// Policy returns the engine's turn policy
func (e *DecisionEngine) Policy() TurnPolicy {
	return e.policy
}

// Decide returns the next step for the interview. Guard rails (stop intent,
// min turns, hard cap) apply to both the LLM and fallback paths.
func (e *DecisionEngine) Decide(ctx context.Context, in DecideInput) Decision {
	turnsTaken := len(in.AskedQuestions)

	if DetectStopIntent(in.LastAnswer) {
		return Decision{IsComplete: true}
	}
	if turnsTaken >= e.policy.MaxTurns {
		return Decision{IsComplete: true}
	}

	d, ok := e.decideLLM(ctx, in)
	if !ok || (!d.IsComplete && d.NextQuestion == "") {
		d = e.decideFallback(in)
	}

	if d.IsComplete && turnsTaken < e.policy.MinTurns {
		// Too early; ask something instead
		d = e.decideFallback(in)
		d.IsComplete = false
		if d.NextQuestion == "" {
			d.NextQuestion = e.qualitativeFollowUp(in.AskedQuestions)
		}
	}

	return d
}

func (e *DecisionEngine) decideLLM(ctx context.Context, in DecideInput) (Decision, bool) {
	if e.provider == nil || !e.provider.IsConfigured() {
		return Decision{}, false
	}

	resp, err := e.provider.Complete(ctx, llm.Request{
		System: decisionSystem,
		Prompt: buildDecisionPrompt(in, e.policy),
	}, "")
	if err != nil {
		log.Warn().Err(err).Msg("decision LLM call failed, using heuristic fallback")
		return Decision{}, false
	}

	obj, err := llm.DecodeObject(resp.Text)
	if err != nil {
		log.Warn().Err(err).Str("raw", truncate(resp.Text, 200)).
			Msg("decision response not parseable, using heuristic fallback")
		return Decision{}, false
	}

	isComplete, _ := obj["is_complete"].(bool)
	question := llm.CleanValue(llm.FlattenValue(obj["next_question"]))

	return Decision{IsComplete: isComplete, NextQuestion: question}, true
}

// decideFallback scans required slots in priority order and emits the first
// template question whose topic does not overlap an already asked question.
func (e *DecisionEngine) decideFallback(in DecideInput) Decision {
	turnsTaken := len(in.AskedQuestions)

	for _, def := range domain.MissingRequired(in.Slots) {
		if def.Question == "" || askedAlready(def.Question, in.AskedQuestions) {
			continue
		}
		return Decision{NextQuestion: def.Question}
	}

	if len(domain.MissingRequired(in.Slots)) == 0 && turnsTaken >= e.policy.MinTurns {
		return Decision{IsComplete: true}
	}

	return Decision{NextQuestion: e.qualitativeFollowUp(in.AskedQuestions)}
}

// qualitativeFollowUps probe the sales temperature when no slot question is
// eligible. Deduped by topic bucket like everything else.
var qualitativeFollowUps = []string{
	"How did the overall atmosphere of the meeting feel?",
	"How did the decision maker react to your proposal?",
	"How likely do you think this deal is to close?",
	"What seemed to spark the most interest on their end?",
	"Was there any pushback or negative signal you noticed?",
}

func (e *DecisionEngine) qualitativeFollowUp(askedQuestions []string) string {
	for _, q := range qualitativeFollowUps {
		if !askedAlready(q, askedQuestions) {
			return q
		}
	}
	return "Anything else about the visit worth recording?"
}

func askedAlready(question string, askedQuestions []string) bool {
	for _, asked := range askedQuestions {
		if asked == question || SharesTopic(question, asked) {
			return true
		}
	}
	return false
}

// stopPhrases mark an explicit request to end the interview
var stopPhrases = []string{
	"that's all", "thats all", "that is all", "nothing else", "no more",
	"stop here", "let's stop", "lets stop", "wrap up", "finish here",
	"i'm done", "im done", "done for today",
	"以上です", "終わりです", "もう大丈夫", "終了して",
}

// DetectStopIntent reports whether an answer explicitly asks to stop
func DetectStopIntent(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	for _, phrase := range stopPhrases {
		if strings.Contains(a, phrase) {
			return true
		}
	}
	return false
}
