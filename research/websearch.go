package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"seo_content_publisher/config"
)

// WebSearchProvider asks a search-enabled chat model for the top results
// instead of calling a search API directly. The model is instructed to
// answer with strict JSON; anything unparsable counts as a failed attempt.
type WebSearchProvider struct {
	model      string
	opts       []option.RequestOption
	maxResults int
}

// NewWebSearchProvider builds a provider backed by the completion API.
func NewWebSearchProvider(cfg config.LLM, maxResults int) (*WebSearchProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the llm_web_search method")
	}
	model := cfg.SearchModel
	if model == "" {
		model = cfg.Model
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &WebSearchProvider{model: model, opts: opts, maxResults: maxResults}, nil
}

// Name returns the provider identifier.
func (p *WebSearchProvider) Name() string { return "llm_web_search" }

// Search issues one completion call and parses the JSON result list.
func (p *WebSearchProvider) Search(ctx context.Context, keyword string) ([]Result, error) {
	client := openai.NewClient(p.opts...)

	system := "You are a web search assistant. Search the web and report the " +
		"top organic results as strict JSON. Output only JSON, no prose."
	user := fmt.Sprintf(
		"Search the web for: %s\nReturn the top %d results in this exact shape:\n"+
			`{"results":[{"title":"...","url":"https://...","snippet":"..."}]}`,
		keyword, p.maxResults)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: web search completion: %v", ErrResearchUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: web search returned no choices", ErrResearchUnavailable)
	}

	results, err := parseWebSearchResults(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResearchUnavailable, err)
	}
	return capResults(results, p.maxResults), nil
}

type webSearchPayload struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// parseWebSearchResults decodes the model's JSON answer. Search-enabled
// models sometimes wrap the JSON in a code fence; strip it before decoding.
func parseWebSearchResults(raw string) ([]Result, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, errors.New("empty web search response")
	}

	var payload webSearchPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parsing web search response: %w", err)
	}

	results := make([]Result, 0, len(payload.Results))
	for _, r := range payload.Results {
		u := r.URL
		if u == "" {
			u = r.Link
		}
		if u == "" {
			continue
		}
		results = append(results, Result{Title: r.Title, URL: u, Snippet: r.Snippet})
	}
	return results, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
