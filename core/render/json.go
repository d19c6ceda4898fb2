// Package render: JSON renderer.
// Emits the feed metadata and the extracted posts as structured JSON.
package render

import (
	"encoding/json"

	"github.com/gaurav-prasanna/feedpipe/core"
)

// feedJSON is the JSON document written for a feed.
type feedJSON struct {
	Metadata metadataJSON `json:"metadata"`
	Posts    []core.Post  `json:"posts"`
}

type metadataJSON struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	SafeTitle string `json:"safe_title"`
	Degraded  bool   `json:"degraded"`
	PostCount int    `json:"post_count"`
}

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the feed's metadata and posts.
func (r *JSONRenderer) Render(feed *core.Feed) ([]byte, error) {
	posts := feed.Posts
	if posts == nil {
		posts = []core.Post{}
	}
	doc := feedJSON{
		Metadata: metadataJSON{
			URL:       feed.URL,
			Title:     feed.Metadata.ChannelTitle,
			SafeTitle: feed.Metadata.SafeTitle,
			Degraded:  feed.Fragment.Degraded,
			PostCount: len(posts),
		},
		Posts: posts,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, exportError("json", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// ContentType returns the MIME type for JSON output.
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}
