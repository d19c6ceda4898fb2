package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaurav-prasanna/feedpipe/web"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FeedPipe web interface",
	Long: `Serve starts the web interface: a form to view a Substack feed as cards and
download links for every export format.

Examples:
  feedpipe serve
  feedpipe serve --addr :8080 --timeout 10s
  feedpipe serve --config feedpipe.yaml --verbose`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":5000", "Listen address")
	addConfigFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !flagVerbose {
		if lvl, err := cfg.Level(); err == nil {
			logger = logger.Level(lvl)
		}
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(p, logger, renderOptions(cfg)...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Dur("timeout", cfg.Timeout).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
