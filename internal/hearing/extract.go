package hearing

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/llm"
)

// Extractor turns one free-text answer into a partial slot delta.
// The LLM path is primary; on any failure it degrades to the deterministic
// rule table and never returns an error.
type Extractor struct {
	provider llm.Provider
}

// NewExtractor creates an extractor. provider may be nil, in which case
// only the rule-based path runs.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract returns a slot delta for the answer. Keys are restricted to the
// slot schema; values are sanitized strings. known tells the model which
// fields it must not re-extract.
func (e *Extractor) Extract(ctx context.Context, answer, lastQuestion string, known map[string]string) map[string]string {
	if answer == "" {
		return map[string]string{}
	}

	if e.provider == nil || !e.provider.IsConfigured() {
		return ruleExtract(answer)
	}

	resp, err := e.provider.Complete(ctx, llm.Request{
		System: extractionSystem,
		Prompt: buildExtractionPrompt(answer, lastQuestion, known),
	}, "")
	if err != nil {
		log.Warn().Err(err).Msg("slot extraction LLM call failed, using rule fallback")
		return ruleExtract(answer)
	}

	obj, err := llm.DecodeObject(resp.Text)
	if err != nil {
		log.Warn().Err(err).Str("raw", truncate(resp.Text, 200)).
			Msg("slot extraction response not parseable, using rule fallback")
		return ruleExtract(answer)
	}

	delta := make(map[string]string)
	for name, value := range obj {
		if _, ok := domain.SlotByName(name); !ok {
			continue
		}
		if v := llm.CleanValue(llm.FlattenValue(value)); v != "" {
			delta[name] = v
		}
	}
	return delta
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
