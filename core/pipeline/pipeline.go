// Package pipeline runs the feed chain for one request:
// normalize → fetch → {metadata, transform} → extract.
//
// A Pipeline holds no per-request state and is safe for concurrent use.
package pipeline

import (
	"context"
	"strings"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/extract"
	"github.com/gaurav-prasanna/feedpipe/core/fetch"
	"github.com/gaurav-prasanna/feedpipe/core/metadata"
	"github.com/gaurav-prasanna/feedpipe/core/normalize"
	"github.com/gaurav-prasanna/feedpipe/core/transform"
	"github.com/rs/zerolog"
)

// Pipeline wires the pipeline stages together.
type Pipeline struct {
	fetcher     core.Fetcher
	transformer core.Transformer
	extractor   core.PostExtractor
	meta        *metadata.Extractor
	log         zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a Pipeline from explicit stages.
func New(fetcher core.Fetcher, transformer core.Transformer, extractor core.PostExtractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:     fetcher,
		transformer: transformer,
		extractor:   extractor,
		meta:        metadata.New(transformer),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDefault builds the standard pipeline around fetcher and a compiled rule set.
func NewDefault(fetcher *fetch.HTTPFetcher, rules *transform.Rules, opts ...Option) *Pipeline {
	return New(fetcher, transform.New(rules), extract.New(), opts...)
}

// Normalize exposes the identifier normalization step.
func (p *Pipeline) Normalize(input string) (string, error) {
	url := normalize.Normalize(input)
	if url == "" {
		return "", &core.InputError{Input: strings.TrimSpace(input)}
	}
	return url, nil
}

// Load normalizes input and runs the rest of the chain. An identifier that
// does not normalize returns *core.InputError without any network call.
func (p *Pipeline) Load(ctx context.Context, input string) (*core.Feed, error) {
	url, err := p.Normalize(input)
	if err != nil {
		return nil, err
	}
	return p.LoadURL(ctx, url)
}

// LoadURL runs the chain for an already canonical feed URL. Fetch failures
// stop the chain; transform and extraction problems only degrade the output.
func (p *Pipeline) LoadURL(ctx context.Context, url string) (*core.Feed, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &core.InputError{}
	}

	p.log.Debug().Str("url", url).Msg("fetching feed")
	res, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("url", url).Int("bytes", len(res.Body)).Msg("fetched feed")

	meta := p.meta.Extract(res.Body)
	frag := p.transformer.Transform(res.Body)
	if frag.Degraded {
		p.log.Warn().Str("url", url).AnErr("cause", frag.Cause).Msg("transform degraded to plain text")
	}
	posts := p.extractor.FromFragment(frag)
	p.log.Debug().Str("url", url).Int("posts", len(posts)).Str("title", meta.ChannelTitle).Msg("extracted posts")

	return &core.Feed{
		URL:      url,
		Metadata: meta,
		Fragment: frag,
		Posts:    posts,
	}, nil
}
