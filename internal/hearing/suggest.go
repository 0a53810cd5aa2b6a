package hearing

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/llm"
)

// ErrSuggestionsUnavailable signals that no suggestions could be produced.
// The suggestion generator deliberately has no deterministic fallback:
// invented candidates would mislead, so failures surface to the caller.
var ErrSuggestionsUnavailable = fmt.Errorf("suggestions unavailable")

// SuggestInput carries everything a suggestion run may ground itself in
type SuggestInput struct {
	Question   string
	Reference  domain.ReferenceData
	Slots      map[string]string
	DataSource domain.DataSource
	History    []domain.ConversationTurn
}

// SuggestionSet is the result of one suggestion run
type SuggestionSet struct {
	Suggestions   []string `json:"suggestions"`
	AllowMultiple bool     `json:"allow_multiple"`
}

type questionType int

const (
	questionContent questionType = iota
	questionWho
	questionFeeling
)

// SuggestionGenerator produces 4-6 selectable answer candidates grounded in
// reference data and recent turns.
type SuggestionGenerator struct {
	provider llm.Provider
	minCount int
	maxCount int
}

// NewSuggestionGenerator creates a suggestion generator
func NewSuggestionGenerator(provider llm.Provider) *SuggestionGenerator {
	return &SuggestionGenerator{provider: provider, minCount: 4, maxCount: 6}
}

// Suggest generates candidates for the question. Unlike extraction and
// decision, any failure is returned as an error.
func (g *SuggestionGenerator) Suggest(ctx context.Context, in SuggestInput) (*SuggestionSet, error) {
	if in.Question == "" {
		return nil, fmt.Errorf("%w: empty question", ErrSuggestionsUnavailable)
	}
	if g.provider == nil || !g.provider.IsConfigured() {
		return nil, fmt.Errorf("%w: no LLM provider configured", ErrSuggestionsUnavailable)
	}

	qType := classifyQuestion(in.Question)
	names := participantNames(in)

	resp, err := g.provider.Complete(ctx, llm.Request{
		System: suggestionSystem,
		Prompt: buildSuggestionPrompt(in, qType, names),
	}, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionsUnavailable, err)
	}

	items, err := llm.DecodeStringArray(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionsUnavailable, err)
	}

	items = filterSuggestions(items, qType, names)
	if len(items) < g.minCount {
		return nil, fmt.Errorf("%w: only %d usable candidates", ErrSuggestionsUnavailable, len(items))
	}
	if len(items) > g.maxCount {
		items = items[:g.maxCount]
	}

	return &SuggestionSet{
		Suggestions:   items,
		AllowMultiple: allowMultiple(in.Question),
	}, nil
}

// participantNames collects real attendee names from reference data and the
// participants slot.
func participantNames(in SuggestInput) []string {
	names := in.Reference.ParticipantNames()
	if v := in.Slots["participants"]; v != "" {
		for _, part := range strings.FieldsFunc(v, func(c rune) bool {
			return c == ',' || c == ';' || c == '、'
		}) {
			if name := strings.TrimSpace(part); name != "" && looksLikeName(name) {
				names = append(names, name)
			}
		}
	}
	return names
}

var whoKeywords = []string{
	"who ", "whom", "which person", "by name", "enthusiastic", "decision maker",
	"decision-maker", "key person", "attended", "誰",
}

var feelingKeywords = []string{
	"feel", "felt", "atmosphere", "mood", "reaction", "impression", "temperature",
	"tone", "how did it go", "雰囲気",
}

func classifyQuestion(question string) questionType {
	q := strings.ToLower(question)
	for _, kw := range whoKeywords {
		if strings.Contains(q, kw) {
			return questionWho
		}
	}
	for _, kw := range feelingKeywords {
		if strings.Contains(q, kw) {
			return questionFeeling
		}
	}
	return questionContent
}

// genericPhraseDenylist are scalar-rating answers with no information gain;
// they never appear in the output.
var genericPhraseDenylist = map[string]bool{
	"very good":            true,
	"good":                 true,
	"average":              true,
	"fair":                 true,
	"poor":                 true,
	"bad":                  true,
	"excellent":            true,
	"neutral":              true,
	"somewhat concerning":  true,
	"not sure":             true,
	"no particular change": true,
	"とても良い":                true,
	"普通":                   true,
	"やや不安":                 true,
}

// fabricatedNamePattern catches honorific-prefixed names the model invents
// despite instructions
var fabricatedNamePattern = regexp.MustCompile(`(?:Mr\.|Ms\.|Mrs\.|Dr\.)\s+[A-Z]|[A-Z][a-z]+-san\b|さん$`)

func filterSuggestions(items []string, qType questionType, names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] || genericPhraseDenylist[key] {
			continue
		}
		if qType == questionWho && len(names) == 0 && fabricatedNamePattern.MatchString(item) {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

var singleSelectKeywords = []string{
	"most", "single", "probability", "likelihood", "how likely", "rank", "degree",
	"one person", "一番", "確度",
}

var multiSelectKeywords = []string{
	"who attended", "participants", "attendees", "issues", "concerns", "features",
	"topics", "which of", "what were",
}

// allowMultiple derives the selection mode from the question wording:
// ranking/probability language means single-select, listing language means
// multi-select, default multi-select.
func allowMultiple(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range singleSelectKeywords {
		if strings.Contains(q, kw) {
			return false
		}
	}
	for _, kw := range multiSelectKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return true
}

// looksLikeName filters role descriptors out of the participants slot when
// collecting real names
func looksLikeName(s string) bool {
	lower := strings.ToLower(s)
	for _, role := range []string{"lead", "manager", "director", "head", "chief", "cto", "cio", "ceo", "team", "department", "部長", "課長"} {
		if strings.Contains(lower, role) {
			return false
		}
	}
	return true
}
