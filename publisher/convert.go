package publisher

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// mdToHTML renders the draft's Markdown body to the HTML WordPress stores.
func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
