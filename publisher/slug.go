package publisher

import "strings"

// DeriveSlug converts a title to a URL-safe slug. A leading article
// (a/an/the) is dropped so slugs stay short.
func DeriveSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	for _, article := range []string{"a ", "an ", "the "} {
		if strings.HasPrefix(s, article) {
			s = strings.TrimSpace(s[len(article):])
			break
		}
	}

	var b strings.Builder
	hyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
