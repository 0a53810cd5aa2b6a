package llm

import "context"

// Request contains completion parameters
type Request struct {
	System string
	Prompt string
}

// Response contains the LLM completion result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM completion backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete generates free text for a prompt
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}
