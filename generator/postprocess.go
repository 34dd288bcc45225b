package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const metaDescriptionMax = 150

// parseBrief decodes the model's JSON brief and normalizes it so downstream
// components can rely on its shape.
func parseBrief(raw, keyword string) (ContentBrief, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return ContentBrief{}, fmt.Errorf("%w: model returned an empty brief", ErrGenerationFailed)
	}

	var brief ContentBrief
	if err := json.Unmarshal([]byte(cleaned), &brief); err != nil {
		return ContentBrief{}, fmt.Errorf("%w: parsing brief: %v", ErrGenerationFailed, err)
	}
	return normalizeBrief(brief, keyword), nil
}

// normalizeBrief fills gaps the model left: target keyword, a title, at
// least three headings, and a bounded meta description.
func normalizeBrief(brief ContentBrief, keyword string) ContentBrief {
	if brief.TargetKeyword == "" {
		brief.TargetKeyword = keyword
	}
	if brief.Title == "" {
		brief.Title = titleFromKeyword(keyword)
	}

	defaults := []string{
		fmt.Sprintf("What to know about %s", keyword),
		fmt.Sprintf("How to choose %s", keyword),
		"Conclusion",
	}
	for i := 0; len(brief.Headings) < 3; i++ {
		brief.Headings = append(brief.Headings, defaults[i%len(defaults)])
	}

	brief.MetaDescription = truncate(brief.MetaDescription, metaDescriptionMax)
	if brief.MetaDescription == "" {
		brief.MetaDescription = truncate(
			fmt.Sprintf("Everything you need to know about %s: expert insights and practical advice.", keyword),
			metaDescriptionMax)
	}
	return brief
}

// parseDraft validates the Markdown article and extracts the four draft
// fields. The slug stays empty; the publisher derives one at publish time.
func parseDraft(raw string, brief ContentBrief) (Draft, error) {
	md := strings.TrimSpace(stripCodeFence(raw))
	if md == "" {
		return Draft{}, fmt.Errorf("%w: model returned an empty article", ErrGenerationFailed)
	}

	title := extractTitle(md)
	if title == "" {
		title = brief.Title
	}
	if title == "" {
		return Draft{}, fmt.Errorf("%w: article has no title", ErrGenerationFailed)
	}

	meta := brief.MetaDescription
	if meta == "" {
		meta = truncate(firstParagraph(md), metaDescriptionMax)
	}

	return Draft{
		Title:           title,
		Body:            md,
		MetaDescription: meta,
	}, nil
}

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractTitle returns the first H1 heading, if any.
func extractTitle(md string) string {
	if m := titleRe.FindStringSubmatch(md); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// firstParagraph returns the first non-heading, non-empty line.
func firstParagraph(md string) string {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}

func titleFromKeyword(keyword string) string {
	words := strings.Fields(strings.ToLower(keyword))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// truncate bounds s to limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}

// stripCodeFence removes a surrounding ``` or ```json fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
