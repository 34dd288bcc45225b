// Package config loads process-wide settings once at startup. Components
// receive the resulting struct explicitly; nothing reads the environment
// after Load returns.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LLM holds settings for the completion API.
type LLM struct {
	APIKey      string
	Model       string
	SearchModel string
	BaseURL     string
	EditorPass  bool
}

// Research holds settings for the SERP research adapter.
type Research struct {
	SerpAPIKey string
	MaxResults int
	Location   string
}

// WordPress holds credentials for the target CMS.
type WordPress struct {
	Domain   string
	User     string
	Password string
}

// Site identifies the site the content is written for. Used in SEO meta
// fields attached at publish time.
type Site struct {
	URL  string
	Name string
}

// Config is the full process configuration, read-only after Load.
type Config struct {
	ListenAddr    string
	SessionSecret string
	Site          Site
	LLM           LLM
	Research      Research
	WordPress     WordPress
}

// Load reads configuration from an optional YAML file plus environment
// variables. Environment variables keep their historical names
// (OPENAI_API_KEY, SERPAPI_KEY, WORDPRESS_DOMAIN, ...) and override the file.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.search_model", "gpt-4o-mini-search-preview")
	v.SetDefault("llm.editor_pass", false)
	v.SetDefault("research.max_results", 10)
	v.SetDefault("site.url", "https://example.com")
	v.SetDefault("site.name", "Content Site")

	bindings := map[string]string{
		"listen_addr":          "LISTEN_ADDR",
		"session_secret":       "SESSION_SECRET",
		"llm.api_key":          "OPENAI_API_KEY",
		"llm.model":            "OPENAI_MODEL",
		"llm.search_model":     "OPENAI_SEARCH_MODEL",
		"llm.base_url":         "OPENAI_BASE_URL",
		"llm.editor_pass":      "EDITOR_PASS",
		"research.serpapi_key": "SERPAPI_KEY",
		"research.max_results": "SERP_RESULTS_COUNT",
		"research.location":    "SERP_LOCATION",
		"wordpress.domain":     "WORDPRESS_DOMAIN",
		"wordpress.user":       "WORDPRESS_USER",
		"wordpress.password":   "WORDPRESS_PASSWORD",
		"site.url":             "SITE_URL",
		"site.name":            "SITE_NAME",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := Config{
		ListenAddr:    v.GetString("listen_addr"),
		SessionSecret: v.GetString("session_secret"),
		Site: Site{
			URL:  v.GetString("site.url"),
			Name: v.GetString("site.name"),
		},
		LLM: LLM{
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			SearchModel: v.GetString("llm.search_model"),
			BaseURL:     v.GetString("llm.base_url"),
			EditorPass:  v.GetBool("llm.editor_pass"),
		},
		Research: Research{
			SerpAPIKey: v.GetString("research.serpapi_key"),
			MaxResults: v.GetInt("research.max_results"),
			Location:   v.GetString("research.location"),
		},
		WordPress: WordPress{
			Domain:   v.GetString("wordpress.domain"),
			User:     v.GetString("wordpress.user"),
			Password: v.GetString("wordpress.password"),
		},
	}
	if cfg.Research.MaxResults <= 0 {
		cfg.Research.MaxResults = 10
	}
	return cfg, nil
}

// Validate checks the keys every mode needs. Publishing credentials are
// checked separately because the CLI run mode never publishes.
func (c Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return nil
}

// ValidatePublishing checks the CMS credentials needed by the web server.
func (c Config) ValidatePublishing() error {
	if c.WordPress.Domain == "" {
		return errors.New("WORDPRESS_DOMAIN is required")
	}
	if c.WordPress.User == "" || c.WordPress.Password == "" {
		return errors.New("WORDPRESS_USER and WORDPRESS_PASSWORD are required")
	}
	return nil
}
