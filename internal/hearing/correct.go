package hearing

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yukmats/visit-hearing/internal/llm"
)

// TextCorrector cleans up raw voice transcripts. LLM-backed with a
// rule-based fallback; never errors.
type TextCorrector struct {
	provider llm.Provider
}

// NewTextCorrector creates a text corrector. provider may be nil.
func NewTextCorrector(provider llm.Provider) *TextCorrector {
	return &TextCorrector{provider: provider}
}

// Correct returns a cleaned-up version of the transcript
func (c *TextCorrector) Correct(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if c.provider == nil || !c.provider.IsConfigured() {
		return ruleCorrect(text)
	}

	resp, err := c.provider.Complete(ctx, llm.Request{
		System: correctionSystem,
		Prompt: buildCorrectionPrompt(text),
	}, "")
	if err != nil {
		log.Warn().Err(err).Msg("transcript correction LLM call failed, using rule fallback")
		return ruleCorrect(text)
	}

	corrected := strings.TrimSpace(llm.StripCodeFences(resp.Text))
	if corrected == "" {
		return ruleCorrect(text)
	}
	return corrected
}

var (
	fillerPattern     = regexp.MustCompile(`(?i)\b(?:um+|uh+|er+|hmm+|you know,?|i mean,|like,)\s*|えーと?、?|あのー?、?|えっと、?|まあ、`)
	whitespacePattern = regexp.MustCompile(`\s{2,}`)
)

// ruleCorrect strips filler words, collapses whitespace and ensures the
// text ends with a sentence terminator.
func ruleCorrect(text string) string {
	text = fillerPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	switch text[len(text)-1] {
	case '.', '!', '?':
	default:
		if !strings.HasSuffix(text, "。") && !strings.HasSuffix(text, "！") && !strings.HasSuffix(text, "？") {
			text += "."
		}
	}
	return text
}
