package generator

import (
	"fmt"
	"strings"

	"seo_content_publisher/research"
)

// Prompt is the message set sent to the LLM.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries optional prior turns.
type Message struct {
	Role    string
	Content string
}

// BuildBriefPrompt asks for a structured content brief as strict JSON. With
// no research records it falls back to a keyword-only brief (degraded but
// non-fatal).
func BuildBriefPrompt(keyword string, results []research.Result) Prompt {
	var sb strings.Builder
	sb.WriteString("You are an SEO content strategist. Produce a content brief as strict JSON, no prose, no code fences.\n")
	sb.WriteString("The JSON object must have these fields:\n")
	sb.WriteString(`{"target_keyword":"...","recommended_title":"...","headings":["..."],` + "\n")
	sb.WriteString(`"questions_to_answer":["..."],"competitor_gaps":["..."],"lsi_keywords":["..."],` + "\n")
	sb.WriteString(`"recommended_word_count":2000,"meta_description":"...","notes":"..."}` + "\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- At least 3 headings, ordered as the article should flow.\n")
	sb.WriteString("- meta_description at most 150 characters.\n")
	sb.WriteString("- 5 to 7 lsi_keywords related to the target keyword.\n")

	var ub strings.Builder
	fmt.Fprintf(&ub, "Target keyword: %s\n", keyword)
	if len(results) == 0 {
		ub.WriteString("No competitor research is available. Build the brief from the keyword alone.\n")
	} else {
		ub.WriteString("Top-ranking competitor pages:\n")
		for i, r := range results {
			fmt.Fprintf(&ub, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
		}
		ub.WriteString("Identify what these pages cover, what questions they answer, and what they miss.\n")
	}
	ub.WriteString("Return the brief JSON now.")

	return Prompt{System: sb.String(), User: ub.String()}
}

// BuildDraftPrompt asks for the full article as Markdown guided by the brief.
func BuildDraftPrompt(brief ContentBrief) Prompt {
	var sb strings.Builder
	sb.WriteString("You are an expert SEO content writer. Output the complete article as Markdown only, no explanations.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Exactly one H1 (# ) used as the article title.\n")
	sb.WriteString("- Follow the given heading structure with ## sections.\n")
	if brief.WordCount > 0 {
		fmt.Fprintf(&sb, "- Aim for roughly %d words.\n", brief.WordCount)
	}
	sb.WriteString("- Work the target keyword and LSI keywords in naturally.\n")
	sb.WriteString("- Conversational yet authoritative tone, practical examples and actionable advice.\n")

	var ub strings.Builder
	fmt.Fprintf(&ub, "Target keyword: %s\n", brief.TargetKeyword)
	if brief.Title != "" {
		fmt.Fprintf(&ub, "Title to use for the H1: %s\n", brief.Title)
	}
	if len(brief.Headings) > 0 {
		ub.WriteString("Heading structure:\n")
		for i, h := range brief.Headings {
			fmt.Fprintf(&ub, "  %d. %s\n", i+1, h)
		}
	}
	if len(brief.Questions) > 0 {
		fmt.Fprintf(&ub, "Questions to answer: %s\n", strings.Join(brief.Questions, "; "))
	}
	if len(brief.Gaps) > 0 {
		fmt.Fprintf(&ub, "Competitor gaps to fill: %s\n", strings.Join(brief.Gaps, "; "))
	}
	if len(brief.LSIKeywords) > 0 {
		fmt.Fprintf(&ub, "LSI keywords: %s\n", strings.Join(brief.LSIKeywords, ", "))
	}
	if brief.Notes != "" {
		fmt.Fprintf(&ub, "Notes: %s\n", brief.Notes)
	}
	ub.WriteString("Write the complete Markdown article now.")

	return Prompt{System: sb.String(), User: ub.String()}
}

// BuildRevisionPrompt asks for a minimal revision of the current draft based
// on one edit instruction. Recent instructions ride along as history so the
// model keeps earlier constraints.
func BuildRevisionPrompt(draft Draft, instruction string, history []Turn) Prompt {
	system := "You are a careful editor. Apply the user's instruction to the article " +
		"with the smallest necessary changes. Keep the Markdown structure: one H1, " +
		"the existing heading hierarchy, and list formatting. Output the full revised " +
		"Markdown only."

	user := fmt.Sprintf("Current article:\n%s\n\nInstruction: %s\nOutput the full revised Markdown.",
		draft.Body, instruction)

	var msgs []Message
	for _, t := range history {
		if t.Instruction == "" {
			continue
		}
		msgs = append(msgs, Message{Role: "user", Content: t.Instruction})
	}

	return Prompt{System: system, User: user, History: msgs}
}

// BuildEditorPrompt asks for a tone pass over a fresh draft. Used only when
// the editor pass is enabled; a failure here is non-fatal.
func BuildEditorPrompt(draft Draft) Prompt {
	system := "You are a line editor. Rework the article so the tone is consistent, " +
		"direct, and free of filler. Do not change facts, structure, or headings. " +
		"Output the full edited Markdown only."
	user := fmt.Sprintf("Article:\n%s\nOutput the edited Markdown.", draft.Body)
	return Prompt{System: system, User: user}
}
