package generator

import (
	"context"
	"strings"
)

// MockLLM is a local stand-in for the completion API. It inspects the
// prompt to decide whether a brief or an article is expected, so the whole
// pipeline can run without network access.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if strings.Contains(prompt.System, "strict JSON") {
		return `{
  "target_keyword": "example keyword",
  "recommended_title": "The Complete Guide",
  "headings": ["Overview", "How It Works", "Conclusion"],
  "questions_to_answer": ["What is it?"],
  "competitor_gaps": ["No pricing details"],
  "lsi_keywords": ["guide", "tips"],
  "recommended_word_count": 800,
  "meta_description": "A short guide.",
  "notes": "mock brief"
}`, nil
	}

	var sb strings.Builder
	sb.WriteString("# The Complete Guide\n\n")
	sb.WriteString("A generated placeholder article summarizing the request.\n\n")
	sb.WriteString("## Overview\n\nMock content for local runs.\n\n")
	sb.WriteString("## How It Works\n\nThe prompt was:\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
