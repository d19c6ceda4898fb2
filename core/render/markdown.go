// Package render: Markdown renderer.
// Converts the card fragment to Markdown with html-to-markdown.
// The converter does not hard-wrap lines.
package render

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/feedpipe/core"
)

// MarkdownRenderer converts the feed fragment into Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the fragment HTML to Markdown.
func (r *MarkdownRenderer) Render(feed *core.Feed) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(feed.Fragment.HTML)
	if err != nil {
		return nil, exportError("md", err)
	}
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// ContentType returns the MIME type for Markdown output.
func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}
