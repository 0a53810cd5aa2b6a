package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yukmats/visit-hearing/internal/llm"
)

// Provider implements llm.Provider for a local Ollama instance
type Provider struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(host, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "llama3"
	}
	return &Provider{
		host:         host,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *Provider) Name() string {
	return "ollama"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"llama3",
		"qwen2.5:7b",
		"mistral",
		"gemma2",
	}
}

func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response  string `json:"response"`
	EvalCount int    `json:"eval_count"`
}

// Complete generates free text for a prompt
func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("ollama provider is not configured (missing host)")
	}

	if model == "" {
		model = p.defaultModel
	}

	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if genResp.Response == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	return &llm.Response{
		Text:       genResp.Response,
		Model:      model,
		TokensUsed: genResp.EvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
