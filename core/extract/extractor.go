// Package extract implements the PostExtractor interface.
// It decomposes a card fragment into posts by:
//  1. Finding every card container in document order
//  2. Taking the heading link as the title and the content container as the body
//  3. Removing script/style and reflowing the body into blank-line separated paragraphs
//
// Extraction never fails. A fragment that cannot be parsed yields a single
// synthetic post carrying the fragment's plain text.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/htmltext"
)

const (
	UntitledPost   = "Untitled Post"
	NoContent      = "No content available."
	FallbackTitle  = "Feed Content"
	paragraphBreak = "\n\n"
)

const (
	cardSelector    = "div.card"
	titleSelector   = "h2 a"
	contentSelector = "div.content"
)

var errEmptyFragment = errors.New("document is empty")

// PostExtractor turns card fragments into posts.
type PostExtractor struct{}

// New creates a PostExtractor.
func New() *PostExtractor {
	return &PostExtractor{}
}

// Extract returns the posts found in fragment, in card order.
func (e *PostExtractor) Extract(fragment string) []core.Post {
	doc, err := parse(fragment)
	if err != nil {
		return fallback(htmltext.PlainText(htmltext.StripControl(fragment)))
	}

	cards := doc.Find(cardSelector)
	posts := make([]core.Post, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		posts = append(posts, core.Post{
			Title:   title(card),
			Content: content(card),
		})
	})
	return posts
}

// FromFragment extracts posts from a transform result. A degraded fragment
// yields the single fallback post built from its plain text.
func (e *PostExtractor) FromFragment(f core.Fragment) []core.Post {
	if f.Degraded {
		return fallback(f.Text)
	}
	return e.Extract(f.HTML)
}

// parse rejects fragments the HTML parser would otherwise silently repair
// beyond recognition: empty documents and raw control characters.
func parse(fragment string) (*goquery.Document, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, errEmptyFragment
	}
	if htmltext.HasControl(fragment) {
		return nil, fmt.Errorf("fragment contains control characters")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}
	return doc, nil
}

func title(card *goquery.Selection) string {
	link := card.Find(titleSelector).First()
	if link.Length() == 0 {
		return UntitledPost
	}
	if t := strings.TrimSpace(link.Text()); t != "" {
		return t
	}
	return UntitledPost
}

func content(card *goquery.Selection) string {
	container := card.Find(contentSelector).First()
	if container.Length() == 0 {
		return NoContent
	}
	// Work on a copy so the caller's document is left intact.
	body := container.Clone()
	htmltext.StripNonContent(body)
	return strings.Join(htmltext.Lines(htmltext.Flatten(body)), paragraphBreak)
}

func fallback(text string) []core.Post {
	return []core.Post{{Title: FallbackTitle, Content: text}}
}
