// Package cmd: export command.
// Runs the chain for one feed and writes a single export:
// normalize → fetch → transform → extract → render → write.
package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/feedpipe/core/output"
	"github.com/gaurav-prasanna/feedpipe/core/render"
	"github.com/spf13/cobra"
)

// formatFlag binds one --<name> flag to a render format key.
type formatFlag struct {
	name  string
	key   string
	usage string
	set   bool
}

var formatFlags = []*formatFlag{
	{name: "pdf", key: "pdf", usage: "Output PDF"},
	{name: "docx", key: "docx", usage: "Output Word document"},
	{name: "pptx", key: "pptx", usage: "Output PowerPoint deck"},
	{name: "txt", key: "txt", usage: "Output plain text"},
	{name: "markdown", key: "md", usage: "Output Markdown"},
	{name: "html", key: "html", usage: "Output standalone HTML"},
	{name: "json", key: "json", usage: "Output structured JSON"},
}

var flagOutputDir string

var exportCmd = &cobra.Command{
	Use:   "export <feed>",
	Short: "Export a Substack feed to the specified format",
	Long: `Export normalizes a Substack name or URL, fetches its feed once and writes
the posts in exactly one format, named after the feed title.

Examples:
  feedpipe export platformer --pdf
  feedpipe export https://www.platformer.news --markdown --output_dir ./out
  feedpipe export platformer.substack.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	for _, f := range formatFlags {
		exportCmd.Flags().BoolVar(&f.set, f.name, false, f.usage)
	}
	exportCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	addConfigFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	key, err := selectFormat(formatFlags)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	renderer, err := render.ForFormat(key, renderOptions(cfg)...)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}

	feed, err := p.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := renderer.Render(feed)
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(feed.Metadata.SafeTitle, data, renderer.Extension())
	if err != nil {
		return err
	}
	logger.Debug().Str("feed", feed.URL).Int("posts", len(feed.Posts)).Int("bytes", len(data)).Msg("export written")
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// selectFormat returns the format key of the single selected flag.
func selectFormat(flags []*formatFlag) (string, error) {
	var selected []*formatFlag
	for _, f := range flags {
		if f.set {
			selected = append(selected, f)
		}
	}
	switch len(selected) {
	case 0:
		return "", fmt.Errorf("exactly one output format is required: --pdf, --docx, --pptx, --txt, --markdown, --html, or --json")
	case 1:
		return selected[0].key, nil
	default:
		return "", fmt.Errorf("only one output format allowed per run (got %d)", len(selected))
	}
}
