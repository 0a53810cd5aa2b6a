package hearing

import (
	"regexp"
	"strings"
)

// ExtractionRule matches one slot value in a free-text answer. Rules for a
// slot are evaluated in order and the first match wins.
type ExtractionRule struct {
	Pattern   *regexp.Regexp
	Transform func(match []string) string
}

func wholeMatch(match []string) string {
	return strings.TrimSpace(match[0])
}

func group(n int) func(match []string) string {
	return func(match []string) string {
		if n < len(match) {
			return strings.TrimSpace(match[n])
		}
		return ""
	}
}

// extractionRules is the deterministic fallback extractor used when the LLM
// is unavailable or returns an unparseable response.
var extractionRules = map[string][]ExtractionRule{
	"budget": {
		{Pattern: regexp.MustCompile(`(?i)(?:about|around|approx\.?|roughly)?\s*[¥$]?\s*[0-9][0-9,.]*\s*(?:million|billion|thousand|万|億)?\s*(?:yen|dollars|usd|jpy|円)`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`[0-9][0-9,.]*\s*(?:万円|億円|百万円)`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`(?i)budget\s+(?:is|of|was|around|about)?\s*([^,.。]+)`), Transform: group(1)},
	},
	"schedule": {
		{Pattern: regexp.MustCompile(`(?i)(?:by|until|before|in)\s+(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+\d{4})?`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`(?i)(?:by|in|within)\s+(?:the\s+)?(?:end of\s+)?(?:this|next)?\s*(?:week|month|quarter|year|fiscal year|q[1-4])`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`\d{4}年\d{1,2}月|\d{1,2}月(?:末|中旬|上旬|下旬)?|来月|今月末?|年度末`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`(?i)decision\s+(?:by|in|expected)\s*([^,.。]+)`), Transform: group(1)},
	},
	"customer": {
		{Pattern: regexp.MustCompile(`([A-Z][\w&.\- ]{1,40}?\s*(?:Inc\.?|Corp\.?|Co\.,?\s*Ltd\.?|Ltd\.?|LLC|K\.K\.|GmbH|Holdings))`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`([\p{Han}\p{Katakana}ー]+(?:株式会社|商事|工業|電機|製作所)|株式会社[\p{Han}\p{Katakana}ー]+)`), Transform: group(1)},
	},
	"participants": {
		{Pattern: regexp.MustCompile(`(?i)((?:the\s+)?(?:cto|cio|ceo|cfo|it\s+(?:lead|manager|director)|general manager|department (?:head|manager)|section chief|purchasing manager|(?:project|product)\s+manager|director)[^,.。]*)`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`([\p{Han}]{1,4}(?:部長|課長|係長|社長|専務|常務|取締役)[^、。]*)`), Transform: group(1)},
	},
	"issues": {
		{Pattern: regexp.MustCompile(`(?i)((?:they|he|she|the customer)?\s*(?:are|is|was|were)?\s*(?:concerned|worried|hesitant|unsure|skeptical)\s+about[^.。]*)`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`(?i)((?:main|biggest|one)?\s*(?:concern|issue|problem|blocker|risk|objection)s?\s+(?:is|was|are|were|being)[^.。]*)`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`(?i)((?:we|they)\s+(?:need to|must|have to|cannot|can't)\s[^.。]*)`), Transform: group(1)},
	},
	"next_action": {
		{Pattern: regexp.MustCompile(`(?i)((?:will|going to|agreed to|promised to|plan to|need to)\s+(?:send|share|prepare|schedule|arrange|set up|demo|present|quote|follow up|propose)[^.。]*)`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`(?i)(?:next\s+(?:step|action|meeting)\s+(?:is|will be)\s*)([^.。]+)`), Transform: group(1)},
	},
	"location": {
		{Pattern: regexp.MustCompile(`(?i)\b(online|remote|web meeting|zoom|teams|google meet)\b`), Transform: wholeMatch},
		{Pattern: regexp.MustCompile(`(?i)(?:at|in)\s+(?:their|the customer'?s?|our)\s+((?:head\s*)?office|headquarters|factory|plant|showroom|site)`), Transform: wholeMatch},
	},
	"project": {
		{Pattern: regexp.MustCompile(`(?i)([\w\- ]{0,30}(?:migration|renewal|replacement|implementation|rollout|upgrade|integration|consolidation)(?:\s+project)?)`), Transform: group(1)},
		{Pattern: regexp.MustCompile(`(?i)((?:erp|crm|cloud|security|network|infrastructure|dx|ai|data)\s[\w\- ]{0,30}(?:project|initiative|system|platform))`), Transform: group(1)},
	},
	"competitor": {
		{Pattern: regexp.MustCompile(`(?i)(?:competitor|competing with|also (?:talking to|evaluating|considering))\s+([^,.。]+)`), Transform: group(1)},
	},
}

// ruleExtract applies the rule table to an answer. It never fails; on no
// match it returns an empty map.
func ruleExtract(answer string) map[string]string {
	slots := make(map[string]string)
	for name, rules := range extractionRules {
		for _, rule := range rules {
			match := rule.Pattern.FindStringSubmatch(answer)
			if match == nil {
				continue
			}
			if value := rule.Transform(match); value != "" {
				slots[name] = value
				break
			}
		}
	}
	return slots
}
