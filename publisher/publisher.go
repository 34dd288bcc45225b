// Package publisher creates draft posts on the target CMS (WordPress REST).
// It never auto-publishes: every post is created with status=draft. A failed
// publish keeps no partial state; the caller resubmits, and a retried
// publish may create a duplicate draft (no idempotency key).
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrPublishFailed wraps every remote-call failure: auth, network, or
// validation rejection by the CMS.
var ErrPublishFailed = errors.New("publish failed")

const postsPath = "/wp-json/wp/v2/posts"

// Config holds the CMS credentials and site identity for SEO fields.
type Config struct {
	Domain   string
	User     string
	Password string
	SiteName string
}

// PostParams describes the approved draft to be created.
type PostParams struct {
	Title           string
	Markdown        string
	Slug            string
	MetaDescription string
}

// Result is the terminal outcome of a publish. Status is always "draft".
type Result struct {
	PostID int    `json:"post_id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Client talks to the WordPress REST API with an application password.
type Client struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

// New creates a Client. A nil http.Client gets a default with a 60s timeout.
func New(cfg Config, client *http.Client, logger *log.Logger) (*Client, error) {
	if cfg.Domain == "" {
		return nil, errors.New("config must include the wordpress domain")
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, errors.New("config must include wordpress user and password")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{cfg: cfg, client: client, logger: logger}, nil
}

type postPayload struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Slug    string            `json:"slug"`
	Excerpt string            `json:"excerpt,omitempty"`
	Status  string            `json:"status"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type postResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// PublishDraft converts the Markdown body to HTML, attaches SEO metadata,
// and creates a draft post. It derives a slug from the title when the
// params carry none.
func (c *Client) PublishDraft(ctx context.Context, p PostParams) (Result, error) {
	if p.Title == "" || p.Markdown == "" {
		return Result{}, fmt.Errorf("%w: title and body are required", ErrPublishFailed)
	}

	slug := p.Slug
	if slug == "" {
		slug = DeriveSlug(p.Title)
	}

	html, err := mdToHTML(p.Markdown)
	if err != nil {
		return Result{}, fmt.Errorf("%w: converting markdown: %v", ErrPublishFailed, err)
	}

	payload := postPayload{
		Title:   p.Title,
		Content: html,
		Slug:    slug,
		Excerpt: p.MetaDescription,
		Status:  "draft",
		Meta:    seoMeta(p.Title, p.MetaDescription, c.cfg.SiteName),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("%w: encoding payload: %v", ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+postsPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: creating request: %v", ErrPublishFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.User, c.cfg.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: wordpress request: %v", ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("%w: wordpress returned HTTP %d: %s",
			ErrPublishFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var pr postResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Result{}, fmt.Errorf("%w: parsing wordpress response: %v", ErrPublishFailed, err)
	}

	link := pr.Link
	if link == "" {
		link = c.baseURL() + "/" + slug
	}

	c.logger.Printf("[publisher] created draft post id=%d slug=%s", pr.ID, slug)
	return Result{PostID: pr.ID, URL: link, Status: "draft"}, nil
}

// baseURL accepts either a bare domain or a full URL in config, so tests
// can point the client at an httptest server.
func (c *Client) baseURL() string {
	d := strings.TrimRight(c.cfg.Domain, "/")
	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		return d
	}
	return "https://" + d
}
