// Package htmltext flattens HTML into line-oriented plain text.
// Block elements and <br> start new lines; inline text is kept verbatim,
// including the line breaks present in the markup itself.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NonContent lists elements whose text is never part of extracted content.
var NonContent = []string{"script", "style"}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

// StripNonContent removes script and style descendants from sel.
func StripNonContent(sel *goquery.Selection) {
	sel.Find(strings.Join(NonContent, ", ")).Remove()
}

// Flatten returns the text content of sel with block boundaries as newlines.
func Flatten(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		flattenNode(&b, n)
	}
	return b.String()
}

func flattenNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenNode(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Lines splits text into trimmed, non-blank lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// PlainText parses markup leniently, drops script/style, and returns its
// non-blank lines joined by single newlines. Unparseable input yields "".
func PlainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	StripNonContent(doc.Selection)
	return strings.Join(Lines(StripControl(Flatten(doc.Selection))), "\n")
}

// HasControl reports whether s contains C0 control characters other than
// tab, newline, form feed and carriage return.
func HasControl(s string) bool {
	return strings.IndexFunc(s, isControl) >= 0
}

// StripControl removes the characters HasControl looks for.
func StripControl(s string) string {
	if !HasControl(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r':
		return false
	}
	return r < 0x20 || r == 0x7f
}
