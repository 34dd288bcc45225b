package generator

import "context"

// LLMClient abstracts the completion API so components can be tested with
// fakes.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings carries the base configuration for concrete clients.
type LLMSettings struct {
	Model   string
	APIKey  string
	BaseURL string
}
