package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo_content_publisher/publisher"
	"seo_content_publisher/research"
)

// scriptedLLM returns queued responses in order; an empty queue errors.
type scriptedLLM struct {
	responses []string
	prompts   []Prompt
}

func (s *scriptedLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.responses) == 0 {
		return "", errors.New("scripted llm exhausted")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	if next == "ERROR" {
		return "", errors.New("simulated completion failure")
	}
	return next, nil
}

type fakePublisher struct {
	calls  int
	last   publisher.PostParams
	result publisher.Result
	err    error
}

func (f *fakePublisher) PublishDraft(_ context.Context, p publisher.PostParams) (publisher.Result, error) {
	f.calls++
	f.last = p
	if f.err != nil {
		return publisher.Result{}, f.err
	}
	return f.result, nil
}

const draftMarkdown = "# The Best Hiking Boots of the Year\n\nBoots matter.\n\n## Top Picks\n\nSome picks.\n\n## How to Choose\n\nAdvice.\n\n## Conclusion\n\nWrap up.\n"

func newTestSession(t *testing.T, llm LLMClient, pub Publisher, results []research.Result) *Session {
	t.Helper()
	agent, err := NewAgent(llm, false, nil)
	require.NoError(t, err)
	return NewSession("sess-1", "best hiking boots", research.MethodSearchAPI, results, agent, pub)
}

func fiveResults() []research.Result {
	var rs []research.Result
	for i := 1; i <= 5; i++ {
		rs = append(rs, research.Result{
			Title:   fmt.Sprintf("Competitor %d", i),
			URL:     fmt.Sprintf("https://example.com/%d", i),
			Snippet: "snippet",
		})
	}
	return rs
}

func TestGenerateMovesDraftingToReviewing(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, &fakePublisher{}, fiveResults())

	require.Equal(t, StateDrafting, sess.State())
	draft, err := sess.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateReviewing, sess.State())
	assert.Equal(t, "The Best Hiking Boots of the Year", draft.Title)
	assert.NotEmpty(t, draft.Body)
	assert.NotEmpty(t, draft.MetaDescription)
	assert.GreaterOrEqual(t, len(sess.Brief.Headings), 3)
	assert.Len(t, sess.History, 1)
}

func TestGenerateTwiceRejected(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, &fakePublisher{}, nil)

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	_, err = sess.Generate(context.Background())
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestGenerateFailureStaysDrafting(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"ERROR"}}
	sess := newTestSession(t, llm, &fakePublisher{}, nil)

	_, err := sess.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.Equal(t, StateDrafting, sess.State())
}

func TestBriefDegradedModeWithoutResearch(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, &fakePublisher{}, nil)

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Brief.Headings)
	assert.Contains(t, llm.prompts[0].User, "No competitor research is available")
}

func TestEditReplacesDraftAndLoops(t *testing.T) {
	revised := "# The Best Hiking Boots of the Year\n\nShorter now.\n\n## Top Picks\n\nPicks.\n"
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown, revised, revised}}
	sess := newTestSession(t, llm, &fakePublisher{}, fiveResults())

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	// Same instruction twice: two distinct generations, still reviewing.
	for i := 0; i < 2; i++ {
		draft, err := sess.Edit(context.Background(), "make it shorter")
		require.NoError(t, err)
		assert.Equal(t, StateReviewing, sess.State())
		assert.Contains(t, draft.Body, "Shorter now.")
	}

	assert.Len(t, sess.History, 3)
	assert.Contains(t, sess.Draft.Body, "Shorter now.")
}

func TestEditFailureKeepsPriorDraft(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown, "ERROR"}}
	sess := newTestSession(t, llm, &fakePublisher{}, nil)

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)
	before := sess.Draft

	_, err = sess.Edit(context.Background(), "make it shorter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.Equal(t, StateReviewing, sess.State())
	assert.Equal(t, before, sess.Draft)
	assert.Len(t, sess.History, 1)
}

func TestEditRequiresInstruction(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, &fakePublisher{}, nil)

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	_, err = sess.Edit(context.Background(), "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestEditBeforeGenerateRejected(t *testing.T) {
	sess := newTestSession(t, &scriptedLLM{}, &fakePublisher{}, nil)
	_, err := sess.Edit(context.Background(), "shorter")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestApprovePublishesAndTerminates(t *testing.T) {
	pub := &fakePublisher{result: publisher.Result{PostID: 123, URL: "https://example.com/best-hiking-boots-of-the-year", Status: "draft"}}
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, pub, fiveResults())

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	result, err := sess.Approve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePublished, sess.State())
	assert.Equal(t, 123, result.PostID)
	assert.Equal(t, "draft", result.Status)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "The Best Hiking Boots of the Year", pub.last.Title)
	assert.Equal(t, sess.Draft.Body, pub.last.Markdown)
}

func TestApproveEmptyDraftValidatesWithoutRemoteCall(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &scriptedLLM{}, pub, nil)
	sess.state = StateReviewing // force a reviewing session with no draft

	_, err := sess.Approve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 0, pub.calls)
}

func TestApproveBeforeReviewingRejected(t *testing.T) {
	pub := &fakePublisher{}
	sess := newTestSession(t, &scriptedLLM{}, pub, nil)

	_, err := sess.Approve(context.Background())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 0, pub.calls)
}

func TestApproveFailureReturnsToReviewing(t *testing.T) {
	pub := &fakePublisher{err: fmt.Errorf("%w: wordpress returned HTTP 401", publisher.ErrPublishFailed)}
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown}}
	sess := newTestSession(t, llm, pub, nil)

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	_, err = sess.Approve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, publisher.ErrPublishFailed))
	assert.Equal(t, StateReviewing, sess.State())
	assert.False(t, sess.Draft.Empty())
}

func TestSnapshotDuringEdits(t *testing.T) {
	revised := "# The Best Hiking Boots of the Year\n\nShorter now.\n\n## Top Picks\n\nPicks.\n"
	responses := []string{sampleBriefJSON, draftMarkdown}
	for i := 0; i < 25; i++ {
		responses = append(responses, revised)
	}
	llm := &scriptedLLM{responses: responses}
	sess := newTestSession(t, llm, &fakePublisher{}, fiveResults())

	_, err := sess.Generate(context.Background())
	require.NoError(t, err)

	// Reads race against in-flight edits unless they go through Snapshot;
	// run with -race to catch regressions.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			if _, err := sess.Edit(context.Background(), "make it shorter"); err != nil {
				return
			}
		}
	}()

	for reading := true; reading; {
		state, _, draft, history := sess.Snapshot()
		assert.Equal(t, StateReviewing, state)
		assert.False(t, draft.Empty())
		assert.NotEmpty(t, history)
		select {
		case <-done:
			reading = false
		default:
		}
	}

	state, _, draft, history := sess.Snapshot()
	assert.Equal(t, StateReviewing, state)
	assert.Contains(t, draft.Body, "Shorter now.")
	assert.Len(t, history, 26)
}

func TestEditorPassFailureIsNonFatal(t *testing.T) {
	llm := &scriptedLLM{responses: []string{sampleBriefJSON, draftMarkdown, "ERROR"}}
	agent, err := NewAgent(llm, true, nil)
	require.NoError(t, err)

	brief, err := agent.BuildBrief(context.Background(), "best hiking boots", nil)
	require.NoError(t, err)
	draft, err := agent.GenerateDraft(context.Background(), brief)
	require.NoError(t, err)

	// Editor pass failed; the unedited draft survives.
	assert.Equal(t, "The Best Hiking Boots of the Year", draft.Title)
}
