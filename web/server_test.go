package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/extract"
	"github.com/gaurav-prasanna/feedpipe/core/fetch"
	"github.com/gaurav-prasanna/feedpipe/core/pipeline"
	"github.com/gaurav-prasanna/feedpipe/core/render"
	"github.com/gaurav-prasanna/feedpipe/core/transform"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Hello Letter</title>
    <item>
      <title>Hello</title>
      <link>https://hello.substack.com/p/hello</link>
      <content:encoded><![CDATA[<p>Line one.</p><p>Line two.</p>]]></content:encoded>
    </item>
  </channel>
</rss>`

// stubFetcher serves a fixed body for every URL and records the requests.
type stubFetcher struct {
	calls atomic.Int32
	last  atomic.Value
	body  string
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, u string) (*core.FetchResult, error) {
	f.calls.Add(1)
	f.last.Store(u)
	if f.err != nil {
		return nil, f.err
	}
	return &core.FetchResult{URL: u, StatusCode: http.StatusOK, Body: []byte(f.body)}, nil
}

func newTestServer(t *testing.T, f core.Fetcher) *Server {
	t.Helper()
	rules, err := transform.LoadRules()
	require.NoError(t, err)
	p := pipeline.New(f, transform.New(rules), extract.New())
	return NewServer(p, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, req *http.Request) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func postView(input string) *http.Request {
	form := url.Values{"feed_input": {input}}
	req := httptest.NewRequest(http.MethodPost, "/view", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestStaticPages(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})

	res, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `name="feed_input"`)
	assert.Contains(t, body, `id="theme-toggle"`)

	res, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "feedpipe export")

	res, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/static/theme.js", nil))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "localStorage")

	res, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestView_EmptyInput(t *testing.T) {
	f := &stubFetcher{body: helloFeed}
	srv := newTestServer(t, f)

	res, body := do(t, srv, postView("   "))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, msgInvalidInput)
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestView_Success(t *testing.T) {
	f := &stubFetcher{body: helloFeed}
	srv := newTestServer(t, f)

	res, body := do(t, srv, postView("hello"))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "https://hello.substack.com/feed", f.last.Load())
	assert.Contains(t, body, "<title>Hello Letter | FeedPipe</title>")
	assert.Contains(t, body, `<div class="card">`)
	assert.Contains(t, body, `href="/download/pdf?url=https%3a%2f%2fhello.substack.com%2ffeed"`)
	assert.Contains(t, body, "Line one.")
}

func TestView_FetchError(t *testing.T) {
	f := &stubFetcher{err: &core.FetchError{URL: "https://gone.substack.com/feed", StatusCode: http.StatusNotFound}}
	srv := newTestServer(t, f)

	res, body := do(t, srv, postView("gone"))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Couldn&#39;t fetch the feed: 404 Not Found for url: https://gone.substack.com/feed")
	assert.Contains(t, body, `value="gone"`)
}

func TestDownload_Text(t *testing.T) {
	f := &stubFetcher{body: helloFeed}
	srv := newTestServer(t, f)

	req := httptest.NewRequest(http.MethodGet, "/download/txt?url="+url.QueryEscape("https://hello.substack.com/feed"), nil)
	res, body := do(t, srv, req)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Hello Letter.txt"`, res.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(body, "Hello Letter\n============\n\nHello\n-----\n\n"))
}

func TestDownload_Formats(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{body: helloFeed})
	for _, format := range []string{"pdf", "docx", "pptx", "md", "html", "json", "markdown"} {
		req := httptest.NewRequest(http.MethodGet, "/download/"+format+"?url=https://hello.substack.com/feed", nil)
		res, body := do(t, srv, req)
		assert.Equal(t, http.StatusOK, res.StatusCode, format)
		assert.NotEmpty(t, body, format)
		assert.Contains(t, res.Header.Get("Content-Disposition"), `filename="Hello Letter.`, format)
	}
}

func TestDownload_Errors(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{body: helloFeed})

	res, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/download/epub?url=x", nil))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/download/pdf", nil))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Error: missing url parameter", body)
}

// roundTripFunc serves client requests from an in-process handler.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func handlerClient(h http.Handler) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Result(), nil
	})}
}

func TestDownload_UpstreamNotFound(t *testing.T) {
	var hits atomic.Int32
	var requested atomic.Value
	client := handlerClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		requested.Store(r.URL.String())
		http.NotFound(w, r)
	}))

	rules, err := transform.LoadRules()
	require.NoError(t, err)
	srv := NewServer(pipeline.NewDefault(fetch.New(fetch.WithClient(client)), rules), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/download/txt?url="+url.QueryEscape("https://gone.substack.com/feed"), nil)
	res, body := do(t, srv, req)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.True(t, strings.HasPrefix(body, "Error:"), body)
	assert.Contains(t, body, "404")
	assert.Empty(t, res.Header.Get("Content-Disposition"))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "https://gone.substack.com/feed", requested.Load())
}

func TestDownload_AcceptsFeedName(t *testing.T) {
	f := &stubFetcher{body: helloFeed}
	srv := newTestServer(t, f)

	res, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/download/txt?url=hello", nil))
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "https://hello.substack.com/feed", f.last.Load())
	assert.True(t, strings.HasPrefix(body, "Hello Letter\n"))
}

func TestDownload_OnlyFetchesPlatformHosts(t *testing.T) {
	f := &stubFetcher{body: helloFeed}
	srv := newTestServer(t, f)

	for _, target := range []string{
		"http://127.0.0.1:8080/admin",
		"https://internal.example/substack.com",
		"https://substack.com@internal.example/feed",
	} {
		req := httptest.NewRequest(http.MethodGet, "/download/txt?url="+url.QueryEscape(target), nil)
		res, body := do(t, srv, req)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode, target)
		assert.True(t, strings.HasPrefix(body, "Error: invalid feed identifier"), body)
	}

	// A bare host is confined to the platform domain rather than fetched as is.
	res, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/download/txt?url="+url.QueryEscape("169.254.169.254/latest"), nil))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "https://169.254.169.254.substack.com/latest/feed", f.last.Load())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestDownload_RenderOptions(t *testing.T) {
	rules, err := transform.LoadRules()
	require.NoError(t, err)
	p := pipeline.New(&stubFetcher{body: helloFeed}, transform.New(rules), extract.New())
	srv := NewServer(p, zerolog.Nop(), render.WithPDFFont("/nonexistent/font.ttf"))

	res, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/download/pdf?url=hello", nil))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, body, "loading font")

	res, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/download/txt?url=hello", nil))
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
