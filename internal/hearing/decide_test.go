package hearing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testPolicy = TurnPolicy{MinTurns: 6, MaxTurns: 8, TotalTurns: 5}

func TestDecide_StopIntent(t *testing.T) {
	provider := new(MockProvider)
	engine := NewDecisionEngine(provider, testPolicy)

	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:  2,
		LastAnswer: "That's all I have for today.",
	})

	assert.True(t, d.IsComplete)
	provider.AssertNotCalled(t, "Complete")
}

func TestDecide_HardCap(t *testing.T) {
	provider := new(MockProvider)
	engine := NewDecisionEngine(provider, testPolicy)

	asked := make([]string, testPolicy.MaxTurns)
	for i := range asked {
		asked[i] = fmt.Sprintf("question %d", i)
	}

	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:      testPolicy.MaxTurns,
		LastAnswer:     "and then we discussed pricing",
		AskedQuestions: asked,
	})

	assert.True(t, d.IsComplete)
	provider.AssertNotCalled(t, "Complete")
}

func TestDecide_LLMQuestion(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse(`{"is_complete": false, "next_question": "Did a budget figure come up?"}`), nil)

	engine := NewDecisionEngine(provider, testPolicy)
	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:      1,
		LastAnswer:     "We talked about their ERP renewal.",
		AskedQuestions: []string{"How did today's visit go?"},
	})

	assert.False(t, d.IsComplete)
	assert.Equal(t, "Did a budget figure come up?", d.NextQuestion)
	provider.AssertExpectations(t)
}

func TestDecide_NoEarlyCompletion(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse(`{"is_complete": true, "next_question": ""}`), nil)

	engine := NewDecisionEngine(provider, testPolicy)
	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:      2,
		LastAnswer:     "Budget is 10 million yen.",
		AskedQuestions: []string{"q1", "q2"},
	})

	// The model said complete, but only 2 questions have been asked
	assert.False(t, d.IsComplete)
	assert.NotEmpty(t, d.NextQuestion)
}

func TestDecide_FallbackOnLLMError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(nil, fmt.Errorf("upstream timeout"))

	engine := NewDecisionEngine(provider, testPolicy)
	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:      1,
		LastAnswer:     "It went fine.",
		AskedQuestions: []string{"How did today's visit go?"},
	})

	assert.False(t, d.IsComplete)
	assert.Equal(t, "Which company did you visit today?", d.NextQuestion)
}

func TestDecide_FallbackOnUnparseableResponse(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse("I think the hearing should continue."), nil)

	engine := NewDecisionEngine(provider, testPolicy)
	d := engine.Decide(context.Background(), DecideInput{
		TurnIndex:      1,
		LastAnswer:     "It went fine.",
		AskedQuestions: []string{"q1"},
	})

	assert.False(t, d.IsComplete)
	assert.NotEmpty(t, d.NextQuestion)
}

func TestDecideFallback_PriorityOrder(t *testing.T) {
	engine := NewDecisionEngine(nil, testPolicy)

	d := engine.decideFallback(DecideInput{
		Slots: map[string]string{"customer": "Acme Corp"},
	})

	assert.Equal(t, "What project or initiative did you discuss?", d.NextQuestion)
}

func TestDecideFallback_SkipsCoveredTopics(t *testing.T) {
	engine := NewDecisionEngine(nil, testPolicy)

	d := engine.decideFallback(DecideInput{
		Slots:          map[string]string{"customer": "Acme Corp"},
		AskedQuestions: []string{"What kind of project is on their agenda?"},
	})

	// project was already probed, even though the slot is still empty
	assert.Equal(t, "What next action did you agree on with the customer?", d.NextQuestion)
}

func TestDecideFallback_AllSlotsFilled(t *testing.T) {
	engine := NewDecisionEngine(nil, testPolicy)

	slots := map[string]string{
		"customer": "Acme Corp", "project": "ERP renewal", "next_action": "send quote",
		"budget": "10M yen", "schedule": "by March", "participants": "CTO",
		"location": "online", "issues": "none raised",
	}

	early := engine.decideFallback(DecideInput{Slots: slots, AskedQuestions: []string{"q1", "q2"}})
	assert.False(t, early.IsComplete)
	assert.NotEmpty(t, early.NextQuestion)

	asked := []string{"q1", "q2", "q3", "q4", "q5", "q6"}
	late := engine.decideFallback(DecideInput{Slots: slots, AskedQuestions: asked})
	assert.True(t, late.IsComplete)
}

func TestDecideFallback_QualitativeFollowUpsExhausted(t *testing.T) {
	engine := NewDecisionEngine(nil, testPolicy)

	asked := make([]string, 0, len(qualitativeFollowUps))
	asked = append(asked, qualitativeFollowUps...)

	q := engine.qualitativeFollowUp(asked)
	assert.Equal(t, "Anything else about the visit worth recording?", q)
}

func TestDetectStopIntent(t *testing.T) {
	assert.True(t, DetectStopIntent("I think that's all for now"))
	assert.True(t, DetectStopIntent("以上です"))
	assert.True(t, DetectStopIntent("Nothing else comes to mind"))
	assert.False(t, DetectStopIntent("We stopped by their office"))
	assert.False(t, DetectStopIntent(""))
}
