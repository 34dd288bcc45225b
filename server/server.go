// Package server is the web UI: a keyword form, a research results page,
// and the review page where drafts are edited, approved, and published.
// Every browser interaction is one blocking request/response cycle; no
// background work happens between requests.
package server

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"seo_content_publisher/config"
	"seo_content_publisher/generator"
	"seo_content_publisher/research"
)

const sessionCookie = "seo_session"

// Server holds the dependencies injected into every handler.
type Server struct {
	cfg       config.Config
	agent     *generator.Agent
	pub       generator.Publisher
	providers map[research.Method]research.Provider
	store     *sessionStore
	locations *locationCache
	logger    *log.Logger
}

// New wires the server. Providers maps each research method the UI offers
// to its adapter.
func New(cfg config.Config, agent *generator.Agent, pub generator.Publisher, providers map[research.Method]research.Provider, logger *log.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if pub == nil {
		return nil, errors.New("publisher required")
	}
	if len(providers) == 0 {
		return nil, errors.New("at least one research provider required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:       cfg,
		agent:     agent,
		pub:       pub,
		providers: providers,
		store:     newSessionStore(),
		locations: newLocationCache(5*time.Minute, nil),
		logger:    logger,
	}, nil
}

// Echo builds the configured echo instance with middleware, renderer, and
// routes registered.
func (s *Server) Echo() (*echo.Echo, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = r
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(session.Middleware(s.newCookieStore()))

	e.GET("/", s.handleIndex)
	e.POST("/research", s.handleResearch)
	e.POST("/generate", s.handleGenerate)
	e.GET("/review", s.handleReview)
	e.POST("/review/edit", s.handleEdit)
	e.POST("/review/publish", s.handlePublish)
	e.POST("/review/abandon", s.handleAbandon)
	e.GET("/workflow-status", s.handleStatus)
	e.GET("/api/locations", s.handleLocations)

	return e, nil
}

func (s *Server) newCookieStore() *sessions.CookieStore {
	secret := s.cfg.SessionSecret
	if secret == "" {
		// Sessions are in-memory anyway; a random secret only means cookies
		// do not survive a restart.
		secret = uuid.NewString()
		s.logger.Printf("[server] SESSION_SECRET not set, using a random per-process secret")
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionStore maps session IDs to live review sessions. Sessions exist
// only in memory; abandoning or publishing removes them.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// currentSession resolves the browser's cookie to its server-side session.
func (s *Server) currentSession(c echo.Context) *generator.Session {
	cs, err := session.Get(sessionCookie, c)
	if err != nil {
		return nil
	}
	id, ok := cs.Values["session_id"].(string)
	if !ok || id == "" {
		return nil
	}
	sess, ok := s.store.get(id)
	if !ok {
		return nil
	}
	return sess
}

// bindSession writes the session ID into the browser cookie.
func (s *Server) bindSession(c echo.Context, id string) error {
	cs, err := session.Get(sessionCookie, c)
	if err != nil {
		return err
	}
	cs.Values["session_id"] = id
	return cs.Save(c.Request(), c.Response())
}

// clearSession drops the cookie binding.
func (s *Server) clearSession(c echo.Context) {
	cs, err := session.Get(sessionCookie, c)
	if err != nil {
		return
	}
	delete(cs.Values, "session_id")
	_ = cs.Save(c.Request(), c.Response())
}
