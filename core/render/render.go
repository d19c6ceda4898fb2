// Package render provides the export adapters for the FeedPipe pipeline.
// Every renderer consumes the same core.Feed and is selected by a format key.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/feedpipe/core"
)

// ErrUnknownFormat is returned by ForFormat for unsupported keys.
var ErrUnknownFormat = errors.New("unknown export format")

// Option adjusts the renderers returned by ForFormat.
type Option func(*settings)

type settings struct {
	pdfFont string
}

// WithPDFFont makes PDF output use the TrueType font at path, so text outside
// cp1252 renders correctly. An empty path keeps the built-in fonts.
func WithPDFFont(path string) Option {
	return func(s *settings) { s.pdfFont = path }
}

var registry = map[string]func(settings) core.Renderer{
	"pdf":  func(s settings) core.Renderer { return NewPDFRendererWithFont(s.pdfFont) },
	"docx": func(settings) core.Renderer { return NewDOCXRenderer() },
	"pptx": func(settings) core.Renderer { return NewPPTXRenderer() },
	"txt":  func(settings) core.Renderer { return NewTextRenderer() },
	"md":   func(settings) core.Renderer { return NewMarkdownRenderer() },
	"html": func(settings) core.Renderer { return NewHTMLRenderer() },
	"json": func(settings) core.Renderer { return NewJSONRenderer() },
}

var aliases = map[string]string{
	"markdown": "md",
	"text":     "txt",
	"htm":      "html",
}

// ForFormat returns the renderer registered under key (case-insensitive).
func ForFormat(key string, opts ...Option) (core.Renderer, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	build, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, key)
	}
	var set settings
	for _, opt := range opts {
		opt(&set)
	}
	return build(set), nil
}

// Formats lists the registered format keys in sorted order.
func Formats() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filename returns the download name for feed rendered by r.
func Filename(feed *core.Feed, r core.Renderer) string {
	return feed.Metadata.SafeTitle + r.Extension()
}

// segments splits post content into its blank-line separated paragraphs.
func segments(content string) []string {
	return strings.Split(content, "\n\n")
}

func exportError(format string, err error) error {
	return &core.ExportError{Format: format, Err: err}
}
