package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/extract"
	"github.com/gaurav-prasanna/feedpipe/core/fetch"
	"github.com/gaurav-prasanna/feedpipe/core/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Hello Letter</title>
    <item>
      <title>Hello</title>
      <link>https://hello.substack.com/p/hello</link>
      <content:encoded><![CDATA[Line one.

Line two.]]></content:encoded>
    </item>
    <item>
      <title>World</title>
      <link>https://hello.substack.com/p/world</link>
      <content:encoded><![CDATA[Line one.

Line two.]]></content:encoded>
    </item>
  </channel>
</rss>`

// countingFetcher records calls and serves a fixed body or error.
type countingFetcher struct {
	calls int32
	body  []byte
	err   error
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &core.FetchResult{URL: url, StatusCode: http.StatusOK, Body: f.body}, nil
}

func newPipeline(t *testing.T, f core.Fetcher) *Pipeline {
	t.Helper()
	rules, err := transform.LoadRules()
	require.NoError(t, err)
	return New(f, transform.New(rules), extract.New())
}

func TestLoad_HelloWorld(t *testing.T) {
	f := &countingFetcher{body: []byte(helloWorldFeed)}
	feed, err := newPipeline(t, f).Load(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "https://hello.substack.com/feed", feed.URL)
	assert.Equal(t, core.FeedMetadata{ChannelTitle: "Hello Letter", SafeTitle: "Hello Letter"}, feed.Metadata)
	assert.False(t, feed.Fragment.Degraded)
	assert.Equal(t, []core.Post{
		{Title: "Hello", Content: "Line one.\n\nLine two."},
		{Title: "World", Content: "Line one.\n\nLine two."},
	}, feed.Posts)
	assert.EqualValues(t, 1, f.calls)
}

func TestLoad_EmptyInputSkipsFetch(t *testing.T) {
	f := &countingFetcher{body: []byte(helloWorldFeed)}
	p := newPipeline(t, f)

	for _, in := range []string{"", "   ", "\n"} {
		_, err := p.Load(context.Background(), in)
		var ie *core.InputError
		require.ErrorAs(t, err, &ie)
	}
	assert.Zero(t, atomic.LoadInt32(&f.calls))
}

func TestLoad_UnparseableInputSkipsFetch(t *testing.T) {
	f := &countingFetcher{}
	_, err := newPipeline(t, f).Load(context.Background(), "not a blog")
	var ie *core.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "not a blog", ie.Input)
	assert.Zero(t, f.calls)
}

func TestLoadURL_FetchError404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newPipeline(t, fetch.New()).LoadURL(context.Background(), srv.URL+"/feed")
	var fe *core.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestLoadURL_Empty(t *testing.T) {
	f := &countingFetcher{}
	_, err := newPipeline(t, f).LoadURL(context.Background(), " ")
	var ie *core.InputError
	require.ErrorAs(t, err, &ie)
	assert.Zero(t, f.calls)
}

func TestLoadURL_DegradedStillSucceeds(t *testing.T) {
	f := &countingFetcher{body: []byte("<html><body><p>maintenance page</p></body></html>")}
	feed, err := newPipeline(t, f).LoadURL(context.Background(), "https://x.substack.com/feed")
	require.NoError(t, err)

	assert.True(t, feed.Fragment.Degraded)
	assert.Equal(t, "Feed", feed.Metadata.ChannelTitle)
	assert.Equal(t, "Feed", feed.Metadata.SafeTitle)
	assert.Equal(t, []core.Post{{Title: extract.FallbackTitle, Content: "maintenance page"}}, feed.Posts)
}

func TestNormalize(t *testing.T) {
	p := newPipeline(t, &countingFetcher{})
	url, err := p.Normalize("myblog")
	require.NoError(t, err)
	assert.Equal(t, "https://myblog.substack.com/feed", url)
}
