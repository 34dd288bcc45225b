package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSerpAPIBase(t *testing.T, url string) {
	t.Helper()
	old := serpAPIBase
	serpAPIBase = url
	t.Cleanup(func() { serpAPIBase = old })
}

func TestSerpAPISearchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"organic_results":[]}`)
	}))
	defer ts.Close()
	withSerpAPIBase(t, ts.URL)

	p := NewSerpAPIProvider("test-key", 10, "", ts.Client())
	results, err := p.SearchAt(context.Background(), "best hiking boots", "United States")
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "best hiking boots", q.Get("q"))
	assert.Equal(t, "test-key", q.Get("api_key"))
	assert.Equal(t, "10", q.Get("num"))
	assert.Equal(t, "us", q.Get("gl"))
	assert.Equal(t, "United States", q.Get("location"))

	// Empty result set is still a non-nil slice.
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSerpAPISearchParsesOrganicResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organic_results":[
			{"title":"Boot Guide","link":"https://a.example/guide","snippet":"A guide."},
			{"title":"Top 10 Boots","link":"https://b.example/top10","snippet":"Ranked."},
			{"title":"No link entry","snippet":"dropped"}
		]}`)
	}))
	defer ts.Close()
	withSerpAPIBase(t, ts.URL)

	p := NewSerpAPIProvider("k", 10, "", ts.Client())
	results, err := p.Search(context.Background(), "boots")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, Result{Title: "Boot Guide", URL: "https://a.example/guide", Snippet: "A guide."}, results[0])
}

func TestSerpAPISearchCapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organic_results":[
			{"title":"1","link":"https://e.example/1"},
			{"title":"2","link":"https://e.example/2"},
			{"title":"3","link":"https://e.example/3"}
		]}`)
	}))
	defer ts.Close()
	withSerpAPIBase(t, ts.URL)

	p := NewSerpAPIProvider("k", 2, "", ts.Client())
	results, err := p.Search(context.Background(), "boots")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSerpAPISearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withSerpAPIBase(t, ts.URL)

	p := NewSerpAPIProvider("k", 10, "", ts.Client())
	_, err := p.Search(context.Background(), "boots")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResearchUnavailable))
}

func TestSerpAPISearchUpstreamErrorField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Invalid API key"}`)
	}))
	defer ts.Close()
	withSerpAPIBase(t, ts.URL)

	p := NewSerpAPIProvider("bad", 10, "", ts.Client())
	_, err := p.Search(context.Background(), "boots")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResearchUnavailable))
	assert.Contains(t, err.Error(), "Invalid API key")
}
