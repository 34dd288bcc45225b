package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"seo_content_publisher/generator"
	"seo_content_publisher/research"
)

// Per-action deadlines. Generate covers two completion calls (brief then
// draft) plus the optional editor pass.
const (
	researchTimeout = 30 * time.Second
	generateTimeout = 120 * time.Second
	actionTimeout   = 60 * time.Second
)

type indexData struct {
	Msg      string
	Keyword  string
	Location string
}

type researchData struct {
	Msg     string
	Keyword string
	Method  research.Method
	Results []research.Result
}

type reviewData struct {
	Msg     string
	Keyword string
	Draft   generator.Draft
	History []generator.Turn
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", indexData{
		Msg:      c.QueryParam("msg"),
		Location: s.cfg.Research.Location,
	})
}

// handleResearch validates the keyword, runs one research attempt with the
// selected method, and opens a new session around the results. Validation
// happens before any external call.
func (s *Server) handleResearch(c echo.Context) error {
	keyword := strings.TrimSpace(c.FormValue("keyword"))
	if keyword == "" {
		return redirectMsg(c, "/", "A keyword is required.")
	}

	method := research.Method(c.FormValue("method"))
	if method == "" {
		method = research.MethodSearchAPI
	}
	provider, ok := s.providers[method]
	if !ok {
		return redirectMsg(c, "/", "Unknown research method.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), researchTimeout)
	defer cancel()

	var results []research.Result
	var err error
	location := strings.TrimSpace(c.FormValue("location"))
	if ls, ok := provider.(research.LocationSearcher); ok && location != "" {
		results, err = ls.SearchAt(ctx, keyword, location)
	} else {
		results, err = provider.Search(ctx, keyword)
	}
	if err != nil {
		s.logger.Printf("[server] research failed keyword=%q provider=%s: %v", keyword, provider.Name(), err)
		return c.Render(http.StatusOK, "index.html", indexData{
			Msg:     "Research failed: " + err.Error() + ". Retry or switch methods.",
			Keyword: keyword,
		})
	}

	// Starting over replaces the browser's previous session, if any.
	if old := s.currentSession(c); old != nil {
		s.store.delete(old.ID)
	}

	id := uuid.NewString()
	sess := generator.NewSession(id, keyword, method, results, s.agent, s.pub)
	s.store.set(id, sess)
	if err := s.bindSession(c, id); err != nil {
		s.store.delete(id)
		return err
	}

	return c.Render(http.StatusOK, "research.html", researchData{
		Keyword: keyword,
		Method:  method,
		Results: results,
	})
}

// handleGenerate runs the brief builder and draft generator, then sends the
// user to the review page.
func (s *Server) handleGenerate(c echo.Context) error {
	sess := s.currentSession(c)
	if sess == nil {
		return redirectMsg(c, "/", "No active session. Start with a keyword.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), generateTimeout)
	defer cancel()

	if _, err := sess.Generate(ctx); err != nil {
		s.logger.Printf("[server] generate failed keyword=%q: %v", sess.Keyword, err)
		return c.Render(http.StatusOK, "research.html", researchData{
			Msg:     "Draft generation failed: " + err.Error(),
			Keyword: sess.Keyword,
			Method:  sess.Method,
			Results: sess.Research,
		})
	}

	return c.Redirect(http.StatusSeeOther, "/review")
}

func (s *Server) handleReview(c echo.Context) error {
	sess := s.currentSession(c)
	if sess == nil {
		return redirectMsg(c, "/", "No draft under review.")
	}
	state, _, draft, history := sess.Snapshot()
	if state == generator.StateDrafting {
		return c.Render(http.StatusOK, "research.html", researchData{
			Keyword: sess.Keyword,
			Method:  sess.Method,
			Results: sess.Research,
		})
	}

	return c.Render(http.StatusOK, "review.html", reviewData{
		Msg:     c.QueryParam("msg"),
		Keyword: sess.Keyword,
		Draft:   draft,
		History: history,
	})
}

// handleEdit applies one instruction; a failed edit keeps the prior draft
// and shows the error on the review page.
func (s *Server) handleEdit(c echo.Context) error {
	sess := s.currentSession(c)
	if sess == nil {
		return redirectMsg(c, "/", "No draft under review.")
	}

	instruction := strings.TrimSpace(c.FormValue("instruction"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), actionTimeout)
	defer cancel()

	if _, err := sess.Edit(ctx, instruction); err != nil {
		s.logger.Printf("[server] edit failed keyword=%q: %v", sess.Keyword, err)
		return redirectMsg(c, "/review", "Edit failed: "+err.Error())
	}
	return c.Redirect(http.StatusSeeOther, "/review")
}

// handlePublish approves the draft. On success the session is terminal and
// removed; on failure the draft stays under review for resubmission.
func (s *Server) handlePublish(c echo.Context) error {
	sess := s.currentSession(c)
	if sess == nil {
		return redirectMsg(c, "/", "No draft under review.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), actionTimeout)
	defer cancel()

	result, err := sess.Approve(ctx)
	if err != nil {
		s.logger.Printf("[server] publish failed keyword=%q: %v", sess.Keyword, err)
		return redirectMsg(c, "/review", "Publish failed: "+err.Error())
	}

	s.store.delete(sess.ID)
	s.clearSession(c)
	return c.Render(http.StatusOK, "published.html", map[string]any{
		"Keyword": sess.Keyword,
		"Result":  result,
	})
}

func (s *Server) handleAbandon(c echo.Context) error {
	if sess := s.currentSession(c); sess != nil {
		s.store.delete(sess.ID)
	}
	s.clearSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// handleStatus reports the session's position in the pipeline as JSON.
func (s *Server) handleStatus(c echo.Context) error {
	sess := s.currentSession(c)
	if sess == nil {
		return c.JSON(http.StatusOK, map[string]any{"state": "idle"})
	}
	state, brief, draft, _ := sess.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"state":        state,
		"keyword":      sess.Keyword,
		"method":       sess.Method,
		"has_research": len(sess.Research) > 0,
		"has_brief":    len(brief.Headings) > 0,
		"has_draft":    !draft.Empty(),
	})
}

// handleLocations proxies the SerpApi locations autocomplete with a short
// TTL cache so typing in the form does not hammer the upstream API.
func (s *Server) handleLocations(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	limit := c.QueryParam("limit")
	if limit == "" {
		limit = "10"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	data, err := s.locations.lookup(ctx, query, limit)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSONBlob(http.StatusOK, data)
}

func redirectMsg(c echo.Context, path, msg string) error {
	return c.Redirect(http.StatusSeeOther, path+"?msg="+url.QueryEscape(msg))
}
