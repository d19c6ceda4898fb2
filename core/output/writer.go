// Package output writes rendered exports to disk for the export command.
// Filenames are the feed's safe title plus the renderer's extension
// (e.g., My_Letter.pdf).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/feedpipe/core/metadata"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as stem+ext inside the output directory and returns the
// written path. An existing file with the same name is replaced.
func (w *Writer) Write(stem string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, cleanStem(stem)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// cleanStem keeps the name inside the output directory even for stems that
// did not come from metadata.SafeTitle.
func cleanStem(stem string) string {
	stem = strings.TrimSpace(filepath.Base(filepath.Clean("/" + stem)))
	if stem == "" || stem == "." || stem == "/" || stem == string(filepath.Separator) {
		return metadata.FallbackStem
	}
	return stem
}
