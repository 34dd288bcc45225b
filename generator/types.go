package generator

import "time"

// ContentBrief is the structured outline produced from SERP research. It is
// owned by the session until a draft exists, then kept only as context for
// revisions.
type ContentBrief struct {
	TargetKeyword   string   `json:"target_keyword"`
	Title           string   `json:"recommended_title"`
	Headings        []string `json:"headings"`
	Questions       []string `json:"questions_to_answer"`
	Gaps            []string `json:"competitor_gaps"`
	LSIKeywords     []string `json:"lsi_keywords"`
	WordCount       int      `json:"recommended_word_count"`
	MetaDescription string   `json:"meta_description"`
	Notes           string   `json:"notes"`
}

// Draft is the generated article. Body is Markdown; HTML conversion happens
// at publish time. Slug may stay empty until the publisher derives one.
// Drafts are immutable values: every revision produces a new Draft that
// replaces the previous one wholesale.
type Draft struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	MetaDescription string `json:"meta_description"`
	Slug            string `json:"slug"`
}

// Empty reports whether the draft lacks a title or body.
func (d Draft) Empty() bool {
	return d.Title == "" || d.Body == ""
}

// Turn records one review-loop step for display on the review page.
type Turn struct {
	Instruction string
	Draft       Draft
	CreatedAt   time.Time
}
