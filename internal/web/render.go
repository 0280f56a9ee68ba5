package web

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
