package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seo_content_publisher/config"
	"seo_content_publisher/generator"
	"seo_content_publisher/publisher"
	"seo_content_publisher/research"
	"seo_content_publisher/server"
)

var (
	cfgFile string
	mockLLM bool
)

var rootCmd = &cobra.Command{
	Use:   "seo-content-publisher",
	Short: "Turn a keyword into a reviewed, CMS-ready blog post draft",
	Long: `seo-content-publisher chains SERP research, LLM content generation, and a
review loop into a single pipeline that ends with a draft post on the target
CMS. Run "serve" for the web interface or "run" for a one-shot CLI pass.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if !mockLLM {
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if err := cfg.ValidatePublishing(); err != nil {
			return err
		}

		agent, err := buildAgent(cfg)
		if err != nil {
			return err
		}
		providers, err := buildProviders(cfg)
		if err != nil {
			return err
		}

		pub, err := publisher.New(publisher.Config{
			Domain:   cfg.WordPress.Domain,
			User:     cfg.WordPress.User,
			Password: cfg.WordPress.Password,
			SiteName: cfg.Site.Name,
		}, nil, log.Default())
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, agent, pub, providers, log.Default())
		if err != nil {
			return err
		}
		e, err := srv.Echo()
		if err != nil {
			return err
		}

		log.Printf("[serve] listening on %s", cfg.ListenAddr)
		return e.Start(cfg.ListenAddr)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run research, brief, and draft once from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return fmt.Errorf("--keyword is required")
		}
		methodFlag, _ := cmd.Flags().GetString("method")
		method := research.Method(methodFlag)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if !mockLLM {
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		agent, err := buildAgent(cfg)
		if err != nil {
			return err
		}
		provider, err := buildProvider(cfg, method)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
		defer cancel()

		log.Printf("[run] researching %q via %s", keyword, provider.Name())
		results, err := provider.Search(ctx, keyword)
		if err != nil {
			return err
		}
		fmt.Printf("Research: %d competitor pages\n", len(results))
		for i, r := range results {
			fmt.Printf("  %d. %s\n     %s\n", i+1, r.Title, r.URL)
		}

		log.Printf("[run] building brief")
		brief, err := agent.BuildBrief(ctx, keyword, results)
		if err != nil {
			return err
		}
		fmt.Printf("\nBrief: %s\n", brief.Title)
		for _, h := range brief.Headings {
			fmt.Printf("  - %s\n", h)
		}

		log.Printf("[run] generating draft")
		draft, err := agent.GenerateDraft(ctx, brief)
		if err != nil {
			return err
		}
		fmt.Printf("\nDraft: %s\n", draft.Title)
		fmt.Printf("Meta description: %s\n", draft.MetaDescription)
		fmt.Printf("Words: %d\n", len(strings.Fields(draft.Body)))
		fmt.Println("\nReview and publish through the web interface (serve).")
		return nil
	},
}

func buildAgent(cfg config.Config) (*generator.Agent, error) {
	if mockLLM {
		return generator.NewAgent(generator.MockLLM{}, false, log.Default())
	}
	llm, err := generator.NewOpenAILLM(generator.LLMSettings{
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, cfg.LLM.EditorPass, log.Default())
}

func buildProvider(cfg config.Config, method research.Method) (research.Provider, error) {
	if mockLLM {
		return research.MockProvider{}, nil
	}
	if method == "" {
		method = research.MethodSearchAPI
	}
	return research.NewProvider(method, cfg)
}

// buildProviders returns every method the configuration supports; the web
// form only works with methods present here.
func buildProviders(cfg config.Config) (map[research.Method]research.Provider, error) {
	providers := make(map[research.Method]research.Provider)
	if mockLLM {
		providers[research.MethodSearchAPI] = research.MockProvider{}
		providers[research.MethodLLMWebSearch] = research.MockProvider{}
		return providers, nil
	}
	if cfg.Research.SerpAPIKey != "" {
		p, err := research.NewProvider(research.MethodSearchAPI, cfg)
		if err != nil {
			return nil, err
		}
		providers[research.MethodSearchAPI] = p
	}
	if cfg.LLM.APIKey != "" {
		p, err := research.NewProvider(research.MethodLLMWebSearch, cfg)
		if err != nil {
			return nil, err
		}
		providers[research.MethodLLMWebSearch] = p
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no research method configured: set SERPAPI_KEY or OPENAI_API_KEY")
	}
	return providers, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional; env vars win)")
	rootCmd.PersistentFlags().BoolVar(&mockLLM, "mock", false, "use the built-in mock LLM (no API calls)")

	runCmd.Flags().String("keyword", "", "target keyword")
	runCmd.Flags().String("method", string(research.MethodSearchAPI), "research method: search_api or llm_web_search")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}
