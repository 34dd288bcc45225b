package publisher

import (
	"strings"
	"unicode/utf8"
)

const metaTitleMax = 60

// seoMeta builds the post meta fields the site's SEO plugin reads.
func seoMeta(title, metaDescription, siteName string) map[string]string {
	return map[string]string{
		"_yoast_wpseo_title":    metaTitle(title, siteName),
		"_yoast_wpseo_metadesc": metaDescription,
	}
}

// metaTitle appends the site name when it fits, keeping the whole meta
// title within the 60-character SERP display limit. Counting and slicing
// are by rune so non-ASCII titles stay valid UTF-8.
func metaTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	if siteName != "" {
		full := title + " | " + siteName
		if utf8.RuneCountInString(full) <= metaTitleMax {
			return full
		}
	}
	if utf8.RuneCountInString(title) <= metaTitleMax {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:metaTitleMax-3])) + "..."
}
