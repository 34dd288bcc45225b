package generator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"seo_content_publisher/research"
)

// ErrGenerationFailed wraps every completion-call failure and every
// unparsable model response. The caller surfaces it and keeps prior state.
var ErrGenerationFailed = errors.New("generation failed")

// Agent turns research into a brief, a brief into a draft, and a draft plus
// an instruction into a revised draft. One completion call per operation.
type Agent struct {
	llm        LLMClient
	editorPass bool
	logger     *log.Logger
}

// NewAgent builds an Agent. When editorPass is true, freshly generated
// drafts get one extra tone-editing completion; its failure is non-fatal.
func NewAgent(llm LLMClient, editorPass bool, logger *log.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{llm: llm, editorPass: editorPass, logger: logger}, nil
}

// BuildBrief creates a content brief for the keyword. An empty research set
// degrades to a keyword-only brief rather than failing.
func (a *Agent) BuildBrief(ctx context.Context, keyword string, results []research.Result) (ContentBrief, error) {
	raw, err := a.llm.Complete(ctx, BuildBriefPrompt(keyword, results))
	if err != nil {
		return ContentBrief{}, fmt.Errorf("%w: brief completion: %v", ErrGenerationFailed, err)
	}
	return parseBrief(raw, keyword)
}

// GenerateDraft writes the article from the brief. All draft fields except
// the slug are populated on success.
func (a *Agent) GenerateDraft(ctx context.Context, brief ContentBrief) (Draft, error) {
	raw, err := a.llm.Complete(ctx, BuildDraftPrompt(brief))
	if err != nil {
		return Draft{}, fmt.Errorf("%w: draft completion: %v", ErrGenerationFailed, err)
	}
	draft, err := parseDraft(raw, brief)
	if err != nil {
		return Draft{}, err
	}
	if a.editorPass {
		draft = a.polish(ctx, draft, brief)
	}
	return draft, nil
}

// Revise applies one edit instruction to the draft and returns the
// replacement value. The input draft is never mutated.
func (a *Agent) Revise(ctx context.Context, draft Draft, instruction string, history []Turn) (Draft, error) {
	raw, err := a.llm.Complete(ctx, BuildRevisionPrompt(draft, instruction, history))
	if err != nil {
		return Draft{}, fmt.Errorf("%w: revision completion: %v", ErrGenerationFailed, err)
	}
	revised, err := parseDraft(raw, ContentBrief{Title: draft.Title, MetaDescription: draft.MetaDescription})
	if err != nil {
		return Draft{}, err
	}
	revised.Slug = draft.Slug
	return revised, nil
}

// polish runs the optional tone-editing pass. On any failure the unedited
// draft is kept, matching the rest of the pipeline's degrade-don't-die rule
// for optional steps.
func (a *Agent) polish(ctx context.Context, draft Draft, brief ContentBrief) Draft {
	raw, err := a.llm.Complete(ctx, BuildEditorPrompt(draft))
	if err != nil {
		a.logger.Printf("[generator] editor pass failed, keeping original draft: %v", err)
		return draft
	}
	edited, err := parseDraft(raw, brief)
	if err != nil {
		a.logger.Printf("[generator] editor pass unusable, keeping original draft: %v", err)
		return draft
	}
	return edited
}
