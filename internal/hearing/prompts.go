package hearing

import (
	"fmt"
	"strings"

	"github.com/yukmats/visit-hearing/internal/domain"
)

const extractionSystem = "You are a data-entry assistant for sales visit reports. You respond with a single JSON object and nothing else."

func buildExtractionPrompt(answer, lastQuestion string, known map[string]string) string {
	var fields strings.Builder
	for _, def := range domain.AllSlots() {
		fmt.Fprintf(&fields, "- %s: %s\n", def.Name, def.Label)
	}

	knownStr := "(none)"
	if len(known) > 0 {
		var b strings.Builder
		for _, def := range domain.AllSlots() {
			if v := known[def.Name]; v != "" {
				fmt.Fprintf(&b, "- %s: %s\n", def.Name, v)
			}
		}
		if b.Len() > 0 {
			knownStr = b.String()
		}
	}

	return fmt.Sprintf(`Extract structured fields from a sales rep's answer during a visit debrief.

Allowed field names:
%s
Fields already known (do NOT re-extract these):
%s
Rules:
1. Return ONLY a JSON object mapping field names to string values
2. Include only fields clearly stated in the answer, never guess
3. Keep values short and factual, in the answer's own words
4. Use a plain string even when several items apply (join with ", ")

Question that was asked: %s
Answer: %s

JSON:`, fields.String(), knownStr, lastQuestion, answer)
}

const decisionSystem = "You are an interviewer conducting a short debrief of a sales visit. You respond with a single JSON object and nothing else."

func buildDecisionPrompt(in DecideInput, policy TurnPolicy) string {
	covered := coveredTopics(in.AskedQuestions)
	coveredStr := "(none)"
	if len(covered) > 0 {
		coveredStr = strings.Join(covered, ", ")
	}

	missing := domain.MissingRequired(in.Slots)
	missingStr := "(none)"
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, def := range missing {
			names[i] = def.Name
		}
		missingStr = strings.Join(names, ", ")
	}

	asked := "(none)"
	if len(in.AskedQuestions) > 0 {
		asked = "- " + strings.Join(in.AskedQuestions, "\n- ")
	}

	return fmt.Sprintf(`Decide whether the visit debrief is finished or what to ask next.

Questions asked so far (%d of at most %d):
%s

Topics already covered (never re-ask these): %s
Required fields still missing: %s
Latest answer: %s

Rules:
1. In early turns prefer qualitative questions about how the meeting felt
   (atmosphere, reactions, who seemed interested); in later turns confirm facts
2. Never ask about a topic already covered
3. If the latest answer asks to stop or wrap up, set is_complete to true
4. Do not complete before %d questions unless the user asked to stop
5. The interview is force-completed after %d questions no matter what
6. Ask exactly one short question at a time

Return ONLY a JSON object: {"is_complete": bool, "next_question": "..."}

JSON:`, len(in.AskedQuestions), policy.MaxTurns, asked, coveredStr, missingStr,
		in.LastAnswer, policy.MinTurns, policy.MaxTurns)
}

const suggestionSystem = "You write short selectable answer candidates for a sales rep's debrief app. You respond with a single JSON array of strings and nothing else."

func buildSuggestionPrompt(in SuggestInput, qType questionType, names []string) string {
	context := in.Reference.PromptContext()
	if context == "" {
		context = "(no reference data)"
	}

	var knownStr strings.Builder
	for _, def := range domain.AllSlots() {
		if v := in.Slots[def.Name]; v != "" {
			fmt.Fprintf(&knownStr, "- %s: %s\n", def.Name, v)
		}
	}
	known := knownStr.String()
	if known == "" {
		known = "(nothing yet)\n"
	}

	recent := "(none)"
	if n := len(in.History); n > 0 {
		var b strings.Builder
		for _, turn := range in.History[max(0, n-3):] {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", turn.Question, turn.Answer)
		}
		recent = b.String()
	}

	var typeRule string
	switch qType {
	case questionWho:
		if len(names) > 0 {
			typeRule = fmt.Sprintf("This question asks about a person. Use ONLY these real names: %s. Also include one fallback like \"could not be determined\".", strings.Join(names, ", "))
		} else {
			typeRule = "This question asks about a person but no names are known. Use role or department descriptors only (e.g. \"the IT lead\", \"someone from purchasing\", \"could not be determined\"). NEVER invent personal names."
		}
	case questionFeeling:
		typeRule = "This question asks how something felt. Candidates must describe concrete observations (who reacted how, what was said), not ratings."
	default:
		typeRule = "This question asks about content. Candidates must name concrete topics or items grounded in the context below."
	}

	return fmt.Sprintf(`Write 5 selectable answer candidates for the question below.

Question: %s

%s

Reference data:
%s
Known fields:
%s
Recent exchanges:
%s

Rules:
1. Ground every candidate in the reference data, known fields or recent
   exchanges; never invent specifics
2. NEVER use generic rating phrases such as "very good", "average",
   "somewhat concerning" - they carry no information
3. Each candidate is one short phrase a sales rep could tap as their answer
4. Return ONLY a JSON array of strings

JSON:`, in.Question, typeRule, context, known, recent)
}

const correctionSystem = "You clean up voice transcripts. You respond with the corrected text only."

func buildCorrectionPrompt(text string) string {
	return fmt.Sprintf(`Clean up this voice transcript of a sales rep's answer.
Remove filler words, fix punctuation and obvious transcription noise.
Do not change the meaning, do not summarize, keep the original language.

Transcript: %s

Corrected:`, text)
}
