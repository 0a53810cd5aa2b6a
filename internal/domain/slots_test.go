package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSlots_FillOnce(t *testing.T) {
	current := map[string]string{"budget": "10 million yen"}
	delta := map[string]string{"budget": "20 million yen", "schedule": "by March"}

	merged := MergeSlots(current, delta)

	// budget is fill-once: first value sticks
	assert.Equal(t, "10 million yen", merged["budget"])
	assert.Equal(t, "by March", merged["schedule"])
}

func TestMergeSlots_Override(t *testing.T) {
	current := map[string]string{"project": "ERP renewal", "location": "their head office"}
	delta := map[string]string{"project": "cloud migration", "location": "online"}

	merged := MergeSlots(current, delta)

	assert.Equal(t, "cloud migration", merged["project"])
	assert.Equal(t, "online", merged["location"])
}

func TestMergeSlots_DropsUnknownAndEmpty(t *testing.T) {
	merged := MergeSlots(map[string]string{}, map[string]string{
		"customer":   "Acme Corp",
		"not_a_slot": "whatever",
		"schedule":   "",
	})

	assert.Equal(t, map[string]string{"customer": "Acme Corp"}, merged)
}

func TestMergeSlots_DoesNotMutateInputs(t *testing.T) {
	current := map[string]string{"customer": "Acme Corp"}
	delta := map[string]string{"project": "rollout"}

	MergeSlots(current, delta)

	assert.Equal(t, map[string]string{"customer": "Acme Corp"}, current)
	assert.Equal(t, map[string]string{"project": "rollout"}, delta)
}

func TestMissingRequired_PriorityOrder(t *testing.T) {
	missing := MissingRequired(map[string]string{
		"customer": "Acme Corp",
		"budget":   "5 million yen",
	})

	names := make([]string, len(missing))
	for i, def := range missing {
		names[i] = def.Name
	}
	assert.Equal(t, []string{"project", "next_action", "schedule", "participants", "location", "issues"}, names)
}

func TestRequiredSlots_HaveTemplateQuestions(t *testing.T) {
	for _, def := range RequiredSlots() {
		assert.NotEmpty(t, def.Question, "required slot %s needs a fallback question", def.Name)
	}
}

func TestReferenceData_ParticipantNames(t *testing.T) {
	ref := ReferenceData{"participants": "Tanaka, Suzuki; Sato"}
	assert.Equal(t, []string{"Tanaka", "Suzuki", "Sato"}, ref.ParticipantNames())

	assert.Empty(t, ReferenceData{}.ParticipantNames())
	assert.True(t, ReferenceData{"participants": "  "}.IsEmpty())
}

func TestSession_LastQuestion(t *testing.T) {
	s := &Session{}
	assert.Equal(t, "", s.LastQuestion())

	s.AskedQuestions = []string{"first", "second"}
	assert.Equal(t, "second", s.LastQuestion())
}
