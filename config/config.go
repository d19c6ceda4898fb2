// Package config loads FeedPipe runtime settings: built-in defaults, then an
// optional YAML file, then FEEDPIPE_* environment variables. Command-line
// flags are applied last by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/feedpipe/core/fetch"
	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultAddr     = ":5000"
	defaultLogLevel = "info"
)

// Environment variable names.
const (
	EnvAddr      = "FEEDPIPE_ADDR"
	EnvTimeout   = "FEEDPIPE_TIMEOUT"
	EnvUserAgent = "FEEDPIPE_USER_AGENT"
	EnvLogLevel  = "FEEDPIPE_LOG_LEVEL"
	EnvPDFFont   = "FEEDPIPE_PDF_FONT"
)

// Config holds the resolved runtime configuration.
type Config struct {
	Addr      string        `yaml:"addr"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
	LogLevel  string        `yaml:"logLevel"`
	// PDFFont is an optional TrueType font embedded in PDF exports.
	PDFFont string `yaml:"pdfFont"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:      defaultAddr,
		Timeout:   fetch.DefaultTimeout,
		UserAgent: fetch.DefaultUserAgent,
		LogLevel:  defaultLogLevel,
	}
}

// Load resolves the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc Config
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	c.Addr = stringWithDefault(fc.Addr, c.Addr)
	c.UserAgent = stringWithDefault(fc.UserAgent, c.UserAgent)
	c.LogLevel = stringWithDefault(fc.LogLevel, c.LogLevel)
	c.PDFFont = stringWithDefault(fc.PDFFont, c.PDFFont)
	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.Addr = stringWithDefault(os.Getenv(EnvAddr), c.Addr)
	c.UserAgent = stringWithDefault(os.Getenv(EnvUserAgent), c.UserAgent)
	c.LogLevel = stringWithDefault(os.Getenv(EnvLogLevel), c.LogLevel)
	c.PDFFont = stringWithDefault(os.Getenv(EnvPDFFont), c.PDFFont)
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%s: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate reports settings the server cannot run with.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.PDFFont != "" {
		if _, err := os.Stat(c.PDFFont); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func stringWithDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
