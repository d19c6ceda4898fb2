// Package core defines the pipeline types and interfaces for FeedPipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// FetchResult holds the raw feed document and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fragment is the tagged result of the markup transform.
// When Degraded is false, HTML holds the card markup. When Degraded is true,
// Text holds the plain-text extraction of the raw document and HTML holds an
// escaped rendering of that text suitable for display.
type Fragment struct {
	HTML     string
	Degraded bool
	Text     string
	Cause    error
}

// Post is a single entry extracted from a fragment.
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FeedMetadata holds the feed's display title and its filesystem-safe form.
type FeedMetadata struct {
	ChannelTitle string `json:"title"`
	SafeTitle    string `json:"safe_title"`
}

// Feed is everything one request produces, handed to renderers as a unit.
type Feed struct {
	URL      string
	Metadata FeedMetadata
	Fragment Fragment
	Posts    []Post
}

// Fetcher retrieves a raw feed document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Transformer rewrites a raw feed document into a card fragment.
type Transformer interface {
	Transform(doc []byte) Fragment
	ChannelTitle(doc []byte) string
}

// PostExtractor decomposes a fragment into posts.
type PostExtractor interface {
	Extract(fragment string) []Post
	FromFragment(f Fragment) []Post
}

// Renderer converts a loaded feed into a final output format.
type Renderer interface {
	Render(feed *Feed) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
	// ContentType returns the MIME type served for this renderer's output.
	ContentType() string
}
