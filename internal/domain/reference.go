package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DataSource identifies where reference data was loaded from
type DataSource string

const (
	SourceMeeting DataSource = "meeting"
	SourceCRMA    DataSource = "crm-a"
	SourceCRMB    DataSource = "crm-b"
	SourceNone    DataSource = "none"
)

// ReferenceData is read-only external context attached at session start,
// e.g. prior meeting notes or CRM record fields. It is never mutated.
type ReferenceData map[string]string

// IsEmpty reports whether any reference field carries a value
func (r ReferenceData) IsEmpty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// referenceParticipantKeys are the fields that may carry attendee names
var referenceParticipantKeys = []string{"participants", "attendees", "contacts", "contact_name"}

// ParticipantNames returns customer-side names found in the reference data,
// split on common list delimiters.
func (r ReferenceData) ParticipantNames() []string {
	var names []string
	for _, key := range referenceParticipantKeys {
		raw, ok := r[key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		for _, part := range strings.FieldsFunc(raw, func(c rune) bool {
			return c == ',' || c == ';' || c == '/' || c == '、'
		}) {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// PromptContext renders the reference fields as stable "key: value" lines
// for inclusion in LLM prompts.
func (r ReferenceData) PromptContext() string {
	if len(r) == 0 {
		return ""
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if strings.TrimSpace(r[k]) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", k, r[k])
	}
	return b.String()
}
