package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seo_content_publisher/publisher"
	"seo_content_publisher/research"
)

// ErrValidation marks user-input failures: an empty keyword, an empty edit
// instruction, or a publish attempt without title or body. No external call
// is made when it fires.
var ErrValidation = errors.New("validation failed")

// State is the review session's lifecycle position.
type State string

const (
	StateDrafting   State = "drafting"
	StateReviewing  State = "reviewing"
	StatePublishing State = "publishing"
	StatePublished  State = "published"
)

// Publisher is the session's view of the CMS client, kept narrow so tests
// can substitute a fake.
type Publisher interface {
	PublishDraft(ctx context.Context, p publisher.PostParams) (publisher.Result, error)
}

// Session owns one keyword's chain: research records, brief, the single
// live draft, and the publish outcome. Operations within a session are
// strictly sequential; the mutex only guards against a user double-firing
// an action from two tabs. Brief, Draft, and History change under the
// mutex, so concurrent readers go through Snapshot.
type Session struct {
	mu sync.Mutex

	ID       string
	Keyword  string
	Method   research.Method
	Research []research.Result

	Brief   ContentBrief
	Draft   Draft
	History []Turn
	Outcome publisher.Result

	state State
	agent *Agent
	pub   Publisher
}

// NewSession creates a session in the drafting state. The keyword and
// research records are fixed for the session's lifetime.
func NewSession(id, keyword string, method research.Method, results []research.Result, agent *Agent, pub Publisher) *Session {
	return &Session{
		ID:       id,
		Keyword:  keyword,
		Method:   method,
		Research: results,
		state:    StateDrafting,
		agent:    agent,
		pub:      pub,
	}
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a consistent view of the fields that change over the
// session's lifetime, for display while an action may be in flight.
// Keyword, Method, and Research are fixed at creation and safe to read
// directly.
func (s *Session) Snapshot() (State, ContentBrief, Draft, []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Turn, len(s.History))
	copy(history, s.History)
	return s.state, s.Brief, s.Draft, history
}

// Generate builds the brief and the first draft, moving the session from
// drafting to reviewing. On failure the session stays in drafting so the
// user can retry.
func (s *Session) Generate(ctx context.Context) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDrafting {
		return Draft{}, fmt.Errorf("%w: draft already generated", ErrValidation)
	}

	brief, err := s.agent.BuildBrief(ctx, s.Keyword, s.Research)
	if err != nil {
		return Draft{}, err
	}
	draft, err := s.agent.GenerateDraft(ctx, brief)
	if err != nil {
		return Draft{}, err
	}

	s.Brief = brief
	s.Draft = draft
	s.state = StateReviewing
	s.appendTurn("", draft)
	return draft, nil
}

// Edit applies one instruction to the live draft. Success replaces the
// draft; failure leaves state and draft untouched so the prior value is
// shown alongside the error. Identical instructions are deliberately
// non-idempotent: each call re-invokes the model.
func (s *Session) Edit(ctx context.Context, instruction string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReviewing {
		return Draft{}, fmt.Errorf("%w: no draft under review", ErrValidation)
	}
	if instruction == "" {
		return Draft{}, fmt.Errorf("%w: edit instruction is required", ErrValidation)
	}

	revised, err := s.agent.Revise(ctx, s.Draft, instruction, s.History)
	if err != nil {
		return Draft{}, err
	}

	s.Draft = revised
	s.appendTurn(instruction, revised)
	return revised, nil
}

// Approve publishes the live draft. Publish is only reachable from
// reviewing with a non-empty draft; an empty title or body fails validation
// before any remote call. A remote failure returns the session to reviewing
// with the draft intact so the user can resubmit.
func (s *Session) Approve(ctx context.Context) (publisher.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReviewing {
		return publisher.Result{}, fmt.Errorf("%w: nothing to publish in state %s", ErrValidation, s.state)
	}
	if s.Draft.Empty() {
		return publisher.Result{}, fmt.Errorf("%w: draft needs a title and body before publishing", ErrValidation)
	}

	s.state = StatePublishing
	result, err := s.pub.PublishDraft(ctx, publisher.PostParams{
		Title:           s.Draft.Title,
		Markdown:        s.Draft.Body,
		Slug:            s.Draft.Slug,
		MetaDescription: s.Draft.MetaDescription,
	})
	if err != nil {
		s.state = StateReviewing
		return publisher.Result{}, err
	}

	s.Outcome = result
	s.state = StatePublished
	return result, nil
}

func (s *Session) appendTurn(instruction string, draft Draft) {
	s.History = append(s.History, Turn{
		Instruction: instruction,
		Draft:       draft,
		CreatedAt:   time.Now(),
	})
}
