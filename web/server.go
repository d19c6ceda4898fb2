// Package web serves the FeedPipe pages and download endpoints.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/pipeline"
	"github.com/gaurav-prasanna/feedpipe/core/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const (
	msgInvalidInput = "Please enter a valid Substack name or URL."
	msgFetchFailed  = "Couldn't fetch the feed: "
	msgMissingURL   = "missing url parameter"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = mustLoadPages()

// pageSet holds one template tree per page, each sharing the layout.
type pageSet map[string]*template.Template

func mustLoadPages() pageSet {
	set, err := loadPages()
	if err != nil {
		panic(err)
	}
	return set
}

func loadPages() (pageSet, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	set := make(pageSet)
	for _, name := range []string{"index", "result", "docs"} {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parsing %s page: %w", name, err)
		}
		set[name] = t
	}
	return set, nil
}

type indexData struct {
	Error string
	Last  string
}

type resultData struct {
	Title    string
	FeedURL  string
	Fragment template.HTML
	Formats  []string
}

// Server routes browser requests through the feed pipeline.
type Server struct {
	pipeline   *pipeline.Pipeline
	renderOpts []render.Option
	handler    http.Handler
}

// NewServer wires the routes and access logging around p. renderOpts are
// applied to every download renderer.
func NewServer(p *pipeline.Pipeline, logger zerolog.Logger, renderOpts ...render.Option) *Server {
	s := &Server{pipeline: p, renderOpts: renderOpts}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /docs", s.handleDocs)
	mux.HandleFunc("POST /view", s.handleView)
	mux.HandleFunc("GET /download/{format}", s.handleDownload)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(logger)(h)
	s.handler = h
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "index", indexData{})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "docs", nil)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("feed_input")

	url, err := s.pipeline.Normalize(raw)
	if err != nil {
		s.page(w, r, "index", indexData{Error: msgInvalidInput, Last: raw})
		return
	}

	feed, err := s.pipeline.LoadURL(r.Context(), url)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("feed", url).Msg("view failed")
		s.page(w, r, "index", indexData{Error: msgFetchFailed + err.Error(), Last: raw})
		return
	}

	s.page(w, r, "result", resultData{
		Title:   feed.Metadata.ChannelTitle,
		FeedURL: feed.URL,
		// Fragment markup comes from the transform rules, which sanitize item bodies.
		Fragment: template.HTML(feed.Fragment.HTML),
		Formats:  render.Formats(),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	renderer, err := render.ForFormat(r.PathValue("format"), s.renderOpts...)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		s.fail(w, r, errors.New(msgMissingURL))
		return
	}

	// Only canonical feed URLs reach the fetcher; names and links are accepted too.
	feed, err := s.pipeline.Load(r.Context(), raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := renderer.Render(feed)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, render.Filename(feed, renderer)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// fail writes the plain-text error body used by all download endpoints.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *core.FetchError
	ev := hlog.FromRequest(r).Error().Err(err)
	if errors.As(err, &fetchErr) {
		ev = ev.Int("upstream_status", fetchErr.StatusCode)
	}
	ev.Msg("download failed")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintf(w, "Error: %v", err)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", name).Msg("template failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
