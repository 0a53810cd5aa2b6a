package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StripCodeFences extracts the payload from a fenced code block if the
// response is wrapped in one, otherwise returns the trimmed content.
func StripCodeFences(content string) string {
	for _, marker := range []string{"```json", "```"} {
		if body := extractFromCodeBlock(content, marker, "```"); body != "" {
			return body
		}
	}
	return strings.TrimSpace(content)
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}

// DecodeObject parses an LLM response expected to contain a JSON object,
// tolerating code fences and surrounding prose. A parse failure is a
// recoverable error; the caller owns the fallback decision.
func DecodeObject(content string) (map[string]any, error) {
	body := StripCodeFences(content)

	// The model sometimes prefixes prose before the object
	if start := strings.Index(body, "{"); start > 0 {
		if end := strings.LastIndex(body, "}"); end > start {
			body = body[start : end+1]
		}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return obj, nil
}

// DecodeStringArray parses an LLM response expected to contain a JSON array
// of strings.
func DecodeStringArray(content string) ([]string, error) {
	body := StripCodeFences(content)

	if start := strings.Index(body, "["); start > 0 {
		if end := strings.LastIndex(body, "]"); end > start {
			body = body[start : end+1]
		}
	}

	var raw []any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}

	items := make([]string, 0, len(raw))
	for _, v := range raw {
		if s := CleanValue(FlattenValue(v)); s != "" {
			items = append(items, s)
		}
	}
	return items, nil
}

// FlattenValue converts an arbitrary decoded JSON value to a string.
// Arrays are joined with ", ".
func FlattenValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := FlattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CleanValue strips punctuation artifacts the model leaves around extracted
// values: stray brackets, quotes and backticks.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "[]{}\"'`")
	return strings.TrimSpace(s)
}
