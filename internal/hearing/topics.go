package hearing

import "strings"

// topicBuckets maps a topic key to the keywords that mark a question as
// covering that topic. Factual buckets mirror the required slots; the
// qualitative buckets capture sales-temperature questions.
var topicBuckets = map[string][]string{
	"customer":     {"which company", "customer name", "client name", "visit today", "who did you visit"},
	"project":      {"project", "initiative", "discuss", "agenda", "topic"},
	"next_action":  {"next action", "next step", "follow up", "follow-up", "agree"},
	"budget":       {"budget", "cost", "price", "spend", "figure", "investment"},
	"schedule":     {"timeline", "schedule", "deadline", "decision date", "when", "by when"},
	"participants": {"who attended", "participants", "attendees", "from the customer side"},
	"location":     {"where", "location", "place", "online or"},
	"issues":       {"concern", "blocker", "issue", "problem", "risk", "objection"},

	"interest":    {"interest", "interested", "keen"},
	"reaction":    {"reaction", "respond", "response to"},
	"temperature": {"temperature", "likelihood", "probability", "how likely", "close"},
	"atmosphere":  {"atmosphere", "mood", "feel", "impression", "tone"},
	"keyperson":   {"key person", "decision maker", "decision-maker", "most enthusiastic", "champion"},
	"positive":    {"went well", "positive", "good sign", "encouraged"},
	"negative":    {"went badly", "negative", "worried", "bad sign", "pushback"},
}

// TopicKeys derives the set of topic buckets a question touches
func TopicKeys(question string) []string {
	q := strings.ToLower(question)
	var keys []string
	for key, keywords := range topicBuckets {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

// SharesTopic reports whether two questions overlap on any topic bucket.
// Used for the dedup invariant: the fallback path never asks two questions
// from the same bucket.
func SharesTopic(a, b string) bool {
	bKeys := make(map[string]bool)
	for _, key := range TopicKeys(b) {
		bKeys[key] = true
	}
	for _, key := range TopicKeys(a) {
		if bKeys[key] {
			return true
		}
	}
	return false
}

// coveredTopics collects every topic bucket touched by the asked questions
func coveredTopics(askedQuestions []string) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range askedQuestions {
		for _, key := range TopicKeys(q) {
			if !seen[key] {
				seen[key] = true
				topics = append(topics, key)
			}
		}
	}
	return topics
}
