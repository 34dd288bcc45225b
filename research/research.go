// Package research fetches top-ranking competitor pages for a keyword.
// Each research method (SerpApi, LLM web search) implements the Provider
// interface so the caller can switch methods between attempts.
package research

import (
	"context"
	"errors"
	"fmt"

	"seo_content_publisher/config"
)

// ErrResearchUnavailable wraps every failure of the selected research
// provider. A single attempt is made per user action; the caller surfaces
// the error and lets the user retry or switch methods.
var ErrResearchUnavailable = errors.New("research unavailable")

// Method selects the research provider.
type Method string

const (
	MethodSearchAPI    Method = "search_api"
	MethodLLMWebSearch Method = "llm_web_search"
)

// Result is one competitor page from the SERP.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider searches one external service for a keyword. Implementations
// return a non-nil slice (possibly empty) or an error wrapping
// ErrResearchUnavailable, never both nil.
type Provider interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]Result, error)
}

// LocationSearcher is implemented by providers that support geo-targeted
// queries. Callers fall back to Search when a provider lacks it.
type LocationSearcher interface {
	SearchAt(ctx context.Context, keyword, location string) ([]Result, error)
}

// NewProvider builds the provider for the given method from config.
func NewProvider(method Method, cfg config.Config) (Provider, error) {
	switch method {
	case MethodSearchAPI:
		if cfg.Research.SerpAPIKey == "" {
			return nil, errors.New("SERPAPI_KEY is required for the search_api method")
		}
		return NewSerpAPIProvider(cfg.Research.SerpAPIKey, cfg.Research.MaxResults, cfg.Research.Location, nil), nil
	case MethodLLMWebSearch:
		return NewWebSearchProvider(cfg.LLM, cfg.Research.MaxResults)
	default:
		return nil, fmt.Errorf("unknown research method %q", method)
	}
}

// capResults bounds the record count to max, keeping SERP order.
func capResults(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
