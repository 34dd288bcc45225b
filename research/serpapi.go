package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// serpAPIBase is the SerpApi search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// SerpAPIProvider queries SerpApi's Google engine for organic results.
type SerpAPIProvider struct {
	client     *http.Client
	apiKey     string
	maxResults int
	location   string
}

// NewSerpAPIProvider builds a SerpApi provider. A nil client gets a default
// with a 30s timeout.
func NewSerpAPIProvider(apiKey string, maxResults int, location string, client *http.Client) *SerpAPIProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SerpAPIProvider{
		client:     client,
		apiKey:     apiKey,
		maxResults: maxResults,
		location:   location,
	}
}

// Name returns the provider identifier.
func (p *SerpAPIProvider) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search runs a single SerpApi query for the keyword using the configured
// default location.
func (p *SerpAPIProvider) Search(ctx context.Context, keyword string) ([]Result, error) {
	return p.SearchAt(ctx, keyword, p.location)
}

// SearchAt runs a single SerpApi query targeted at a location. Defaults to
// United States results (gl=us) when location is empty.
func (p *SerpAPIProvider) SearchAt(ctx context.Context, keyword, location string) ([]Result, error) {
	params := url.Values{
		"engine":  {"google"},
		"q":       {keyword},
		"api_key": {p.apiKey},
		"num":     {strconv.Itoa(p.maxResults)},
		"gl":      {"us"},
		"hl":      {"en"},
	}
	if location != "" {
		params.Set("location", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrResearchUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serpapi request: %v", ErrResearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serpapi returned HTTP %d", ErrResearchUnavailable, resp.StatusCode)
	}

	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: parsing serpapi response: %v", ErrResearchUnavailable, err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("%w: serpapi: %s", ErrResearchUnavailable, sr.Error)
	}

	results := make([]Result, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if r.Link == "" {
			continue
		}
		results = append(results, Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return capResults(results, p.maxResults), nil
}
