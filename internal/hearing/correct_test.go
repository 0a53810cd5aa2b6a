package hearing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCorrect_LLMPath(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(textResponse("We visited Acme Corp and discussed the ERP renewal."), nil)

	c := NewTextCorrector(provider)
	out := c.Correct(context.Background(), "um so we visited acme corp and uh discussed the erp renewal")

	assert.Equal(t, "We visited Acme Corp and discussed the ERP renewal.", out)
}

func TestCorrect_FallbackOnError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything, "").
		Return(nil, fmt.Errorf("upstream timeout"))

	c := NewTextCorrector(provider)
	out := c.Correct(context.Background(), "um so we visited the customer")

	assert.Equal(t, "so we visited the customer.", out)
}

func TestCorrect_EmptyInput(t *testing.T) {
	c := NewTextCorrector(nil)
	assert.Equal(t, "", c.Correct(context.Background(), "   "))
}

func TestRuleCorrect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips fillers",
			input:    "um we agreed on uh a follow-up demo",
			expected: "we agreed on a follow-up demo.",
		},
		{
			name:     "collapses whitespace",
			input:    "budget   is    10 million yen",
			expected: "budget is 10 million yen.",
		},
		{
			name:     "keeps existing terminator",
			input:    "Decision by March!",
			expected: "Decision by March!",
		},
		{
			name:     "keeps japanese terminator",
			input:    "以上が本日の訪問内容です。",
			expected: "以上が本日の訪問内容です。",
		},
		{
			name:     "strips japanese fillers",
			input:    "えーと、予算は1000万円です。",
			expected: "予算は1000万円です。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ruleCorrect(tt.input))
		})
	}
}
