package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "gpt-4o-mini-search-preview", cfg.LLM.SearchModel)
	assert.False(t, cfg.LLM.EditorPass)
	assert.Equal(t, 10, cfg.Research.MaxResults)
	assert.Equal(t, "Content Site", cfg.Site.Name)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("SERPAPI_KEY", "serp-test")
	t.Setenv("SERP_RESULTS_COUNT", "5")
	t.Setenv("SERP_LOCATION", "Austin, Texas")
	t.Setenv("WORDPRESS_DOMAIN", "blog.example.com")
	t.Setenv("WORDPRESS_USER", "editor")
	t.Setenv("WORDPRESS_PASSWORD", "app-pass")
	t.Setenv("EDITOR_PASS", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.True(t, cfg.LLM.EditorPass)
	assert.Equal(t, "serp-test", cfg.Research.SerpAPIKey)
	assert.Equal(t, 5, cfg.Research.MaxResults)
	assert.Equal(t, "Austin, Texas", cfg.Research.Location)
	assert.Equal(t, "blog.example.com", cfg.WordPress.Domain)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":8080"
site:
  name: "Trail Review"
research:
  max_results: 3
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "Trail Review", cfg.Site.Name)
	assert.Equal(t, 3, cfg.Research.MaxResults)
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":8080\"\n"), 0o600))

	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Validate())
	assert.Error(t, cfg.ValidatePublishing())

	cfg.LLM.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.WordPress.Domain = "blog.example.com"
	assert.Error(t, cfg.ValidatePublishing())

	cfg.WordPress.User = "editor"
	cfg.WordPress.Password = "app-pass"
	assert.NoError(t, cfg.ValidatePublishing())
}

func TestMaxResultsFloor(t *testing.T) {
	t.Setenv("SERP_RESULTS_COUNT", "0")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Research.MaxResults)
}
