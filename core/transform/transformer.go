// Package transform rewrites a raw feed document into an HTML fragment of
// post cards using a fixed template rule set.
//
// Feeds are parsed with gofeed, which is lenient about malformed markup and
// never resolves or fetches external entities. When parsing or rewriting
// fails the result is a degraded fragment carrying the document's plain text;
// Transform itself never returns an error.
package transform

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/htmltext"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/net/html"
)

// DefaultChannelTitle is returned when a feed has no usable channel title.
const DefaultChannelTitle = "Feed"

// unsafeSelectors are removed from item bodies before they are embedded.
var unsafeSelectors = []string{
	"script", "style", "noscript",
	"iframe", "object", "embed",
}

// TransformError records why a document could not be rewritten. It only ever
// appears as core.Fragment.Cause.
type TransformError struct {
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// card is the view model one feed item is rewritten into.
type card struct {
	Title     string
	Link      string
	Published string
	Author    string
	Body      template.HTML
}

// Transformer applies the card rules to feed documents.
type Transformer struct {
	rules *Rules
}

// New creates a Transformer bound to a compiled rule set.
func New(rules *Rules) *Transformer {
	return &Transformer{rules: rules}
}

// Transform rewrites doc into a card fragment, or a degraded fragment when
// the document cannot be parsed or rewritten.
func (t *Transformer) Transform(doc []byte) (frag core.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			frag = t.degrade(doc, &TransformError{Stage: "rewrite", Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	out, err := t.rewrite(doc)
	if err != nil {
		return t.degrade(doc, err)
	}
	return core.Fragment{HTML: out}
}

func (t *Transformer) rewrite(doc []byte) (string, error) {
	if t.rules == nil {
		return "", &TransformError{Stage: "rewrite", Err: fmt.Errorf("no rule set loaded")}
	}

	// gofeed parsers keep per-parse state, so each call gets its own.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		return "", &TransformError{Stage: "parse", Err: err}
	}

	cards := make([]card, 0, len(feed.Items))
	for i, item := range feed.Items {
		if item == nil {
			continue
		}
		c, err := newCard(item)
		if err != nil {
			return "", &TransformError{Stage: fmt.Sprintf("item %d", i+1), Err: err}
		}
		cards = append(cards, c)
	}

	var buf bytes.Buffer
	if err := t.rules.tmpl.ExecuteTemplate(&buf, fragmentRule, cards); err != nil {
		return "", &TransformError{Stage: "rewrite", Err: err}
	}
	return buf.String(), nil
}

// degrade builds the plain-text fallback for doc.
func (t *Transformer) degrade(doc []byte, cause error) core.Fragment {
	text := htmltext.PlainText(string(doc))

	rendered := "<pre>" + template.HTMLEscapeString(text) + "</pre>"
	if t.rules != nil {
		var buf bytes.Buffer
		if err := t.rules.tmpl.ExecuteTemplate(&buf, degradedRule, text); err == nil {
			rendered = buf.String()
		}
	}
	return core.Fragment{HTML: rendered, Degraded: true, Text: text, Cause: cause}
}

func newCard(item *gofeed.Item) (card, error) {
	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	safe, err := sanitize(body)
	if err != nil {
		return card{}, err
	}

	c := card{
		Title: strings.TrimSpace(item.Title),
		Link:  strings.TrimSpace(item.Link),
		Body:  safe,
	}
	switch {
	case item.PublishedParsed != nil:
		c.Published = item.PublishedParsed.UTC().Format("Jan 2, 2006")
	case item.Published != "":
		c.Published = strings.TrimSpace(item.Published)
	}
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			c.Author = strings.TrimSpace(a.Name)
			break
		}
	}
	return c, nil
}

// sanitize strips executable and embedded content from an item body.
func sanitize(body string) (template.HTML, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing item body: %w", err)
	}
	root := doc.Find("body")
	root.Find(strings.Join(unsafeSelectors, ", ")).Remove()
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Attr = safeAttrs(n.Attr)
		}
	})

	out, err := root.Html()
	if err != nil {
		return "", fmt.Errorf("serializing item body: %w", err)
	}
	return template.HTML(out), nil
}

func safeAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		switch key {
		case "href", "src", "action", "formaction", "xlink:href":
			if scriptURL(a.Val) {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept
}

func scriptURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(v, "javascript:") ||
		strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:text/html")
}

// ChannelTitle returns the trimmed rss/channel/title of doc, or "Feed" when
// it is absent or the document cannot be parsed. It never fails.
func (t *Transformer) ChannelTitle(doc []byte) (title string) {
	defer func() {
		if r := recover(); r != nil {
			title = DefaultChannelTitle
		}
	}()

	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(doc))
	if err != nil || feed == nil {
		return DefaultChannelTitle
	}
	if title := strings.TrimSpace(feed.Title); title != "" {
		return title
	}
	return DefaultChannelTitle
}
