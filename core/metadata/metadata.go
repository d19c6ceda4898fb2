// Package metadata derives the feed's display title and a filesystem-safe
// filename stem from a raw feed document.
package metadata

import (
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/feedpipe/core"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackStem is used when a title has no filename-safe characters left.
const FallbackStem = "feed"

// Titler reads the channel title from a raw feed document.
type Titler interface {
	ChannelTitle(doc []byte) string
}

// Extractor builds FeedMetadata.
type Extractor struct {
	titler Titler
}

// New creates an Extractor that reads titles with titler.
func New(titler Titler) *Extractor {
	return &Extractor{titler: titler}
}

// Extract returns the channel title of doc and its safe form.
func (e *Extractor) Extract(doc []byte) core.FeedMetadata {
	title := e.titler.ChannelTitle(doc)
	return core.FeedMetadata{
		ChannelTitle: title,
		SafeTitle:    SafeTitle(title),
	}
}

// SafeTitle keeps only ASCII letters, digits, space, hyphen and underscore,
// after folding accented letters to their base form ("Café" -> "Cafe").
// Trailing whitespace is trimmed and an empty result becomes "feed".
func SafeTitle(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	for _, r := range folded {
		if allowed(r) {
			b.WriteRune(r)
		}
	}

	stem := strings.TrimRight(b.String(), " ")
	if stem == "" {
		return FallbackStem
	}
	return stem
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == '_':
		return true
	}
	return false
}
