package render

import (
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/feedpipe/core"
)

// TextRenderer writes the feed as underlined plain text.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render writes the channel title underlined with '=' and each post title
// underlined with '-', followed by its content.
func (r *TextRenderer) Render(feed *core.Feed) ([]byte, error) {
	var b strings.Builder
	title := feed.Metadata.ChannelTitle
	b.WriteString(title + "\n" + underline(title, "=") + "\n\n")
	for _, post := range feed.Posts {
		b.WriteString(post.Title + "\n" + underline(post.Title, "-") + "\n\n")
		b.WriteString(post.Content + "\n\n\n")
	}
	return []byte(b.String()), nil
}

func underline(s, mark string) string {
	return strings.Repeat(mark, utf8.RuneCountInString(s))
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// ContentType returns the MIME type for text output.
func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}
