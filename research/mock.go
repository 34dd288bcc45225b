package research

import (
	"context"
	"fmt"
)

// MockProvider returns canned competitor pages for local runs without an
// API key.
type MockProvider struct{}

func (MockProvider) Name() string { return "mock" }

func (MockProvider) Search(_ context.Context, keyword string) ([]Result, error) {
	results := make([]Result, 0, 3)
	for i := 1; i <= 3; i++ {
		results = append(results, Result{
			Title:   fmt.Sprintf("Placeholder result %d for %s", i, keyword),
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Snippet: "Canned snippet used when running with --mock.",
		})
	}
	return results, nil
}
