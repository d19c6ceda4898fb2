package cmd

import (
	"time"

	"github.com/gaurav-prasanna/feedpipe/config"
	"github.com/gaurav-prasanna/feedpipe/core/fetch"
	"github.com/gaurav-prasanna/feedpipe/core/pipeline"
	"github.com/gaurav-prasanna/feedpipe/core/render"
	"github.com/gaurav-prasanna/feedpipe/core/transform"
	"github.com/spf13/cobra"
)

// Flags shared by serve and export.
var (
	flagConfig    string
	flagTimeout   time.Duration
	flagUserAgent string
	flagPDFFont   string
)

func addConfigFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	c.Flags().DurationVar(&flagTimeout, "timeout", fetch.DefaultTimeout, "Feed fetch timeout")
	c.Flags().StringVar(&flagUserAgent, "user_agent", fetch.DefaultUserAgent, "User-Agent sent when fetching feeds")
	c.Flags().StringVar(&flagPDFFont, "pdf_font", "", "TrueType font embedded in PDF exports (default: built-in Helvetica)")
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(c *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if c.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if c.Flags().Changed("user_agent") {
		cfg.UserAgent = flagUserAgent
	}
	if c.Flags().Changed("pdf_font") {
		cfg.PDFFont = flagPDFFont
	}
	if f := c.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	return cfg, cfg.Validate()
}

func renderOptions(cfg config.Config) []render.Option {
	return []render.Option{render.WithPDFFont(cfg.PDFFont)}
}

// newPipeline builds the production chain for cfg.
func newPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	rules, err := transform.LoadRules()
	if err != nil {
		return nil, err
	}
	fetcher := fetch.New(fetch.WithTimeout(cfg.Timeout), fetch.WithUserAgent(cfg.UserAgent))
	return pipeline.NewDefault(fetcher, rules, pipeline.WithLogger(logger)), nil
}
