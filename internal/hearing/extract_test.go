package hearing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExtract_LLMPath(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse("```json\n{\"customer\": \"Acme Corp\", \"budget\": \"10 million yen\"}\n```"), nil)

	e := NewExtractor(provider)
	delta := e.Extract(context.Background(), "We visited Acme and the budget is 10 million yen.", "", nil)

	assert.Equal(t, map[string]string{
		"customer": "Acme Corp",
		"budget":   "10 million yen",
	}, delta)
}

func TestExtract_DropsUnknownSlots(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse(`{"customer": "Acme Corp", "weather": "sunny", "schedule": ""}`), nil)

	e := NewExtractor(provider)
	delta := e.Extract(context.Background(), "some answer", "", nil)

	assert.Equal(t, map[string]string{"customer": "Acme Corp"}, delta)
}

func TestExtract_FlattensArrayValues(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse(`{"participants": ["Tanaka", "Suzuki"]}`), nil)

	e := NewExtractor(provider)
	delta := e.Extract(context.Background(), "Tanaka and Suzuki joined.", "", nil)

	assert.Equal(t, "Tanaka, Suzuki", delta["participants"])
}

func TestExtract_RuleFallbackOnError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(nil, fmt.Errorf("upstream timeout"))

	e := NewExtractor(provider)
	delta := e.Extract(context.Background(), "The budget is about 10 million yen, decision by March.", "", nil)

	assert.NotEmpty(t, delta["budget"])
	assert.NotEmpty(t, delta["schedule"])
}

func TestExtract_RuleFallbackOnGarbage(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse("no structured data found"), nil)

	e := NewExtractor(provider)
	delta := e.Extract(context.Background(), "The budget is about 10 million yen.", "", nil)

	assert.NotEmpty(t, delta["budget"])
}

func TestExtract_NilProvider(t *testing.T) {
	e := NewExtractor(nil)
	delta := e.Extract(context.Background(), "Decision by March.", "", nil)
	assert.NotEmpty(t, delta["schedule"])
}

func TestExtract_EmptyAnswer(t *testing.T) {
	provider := new(MockProvider)
	e := NewExtractor(provider)

	delta := e.Extract(context.Background(), "", "", nil)

	assert.Empty(t, delta)
	provider.AssertNotCalled(t, "Complete")
}
