package render

import (
	"bytes"
	"html/template"

	"github.com/gaurav-prasanna/feedpipe/core"
)

var standalonePage = template.Must(template.New("page").Parse(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><title>{{.Title}}</title><style>body{font-family:sans-serif;max-width:800px;margin:2rem auto;}</style></head><body>{{.Body}}</body></html>`))

// HTMLRenderer wraps the fragment in a standalone HTML document.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render embeds the fragment with the channel title as document title.
func (r *HTMLRenderer) Render(feed *core.Feed) ([]byte, error) {
	var buf bytes.Buffer
	err := standalonePage.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: feed.Metadata.ChannelTitle,
		// The fragment is produced by the transform rules and sanitized there.
		Body: template.HTML(feed.Fragment.HTML),
	})
	if err != nil {
		return nil, exportError("html", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// ContentType returns the MIME type for HTML output.
func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}
