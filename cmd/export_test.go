package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/gaurav-prasanna/feedpipe/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagsWith(names ...string) []*formatFlag {
	out := make([]*formatFlag, 0, len(formatFlags))
	for _, f := range formatFlags {
		c := *f
		c.set = false
		for _, n := range names {
			if n == c.name {
				c.set = true
			}
		}
		out = append(out, &c)
	}
	return out
}

func TestSelectFormat(t *testing.T) {
	key, err := selectFormat(flagsWith("markdown"))
	require.NoError(t, err)
	assert.Equal(t, "md", key)

	_, err = selectFormat(flagsWith())
	assert.ErrorContains(t, err, "exactly one output format")

	_, err = selectFormat(flagsWith("pdf", "json"))
	assert.ErrorContains(t, err, "got 2")
}

func TestFormatFlagsResolve(t *testing.T) {
	for _, f := range formatFlags {
		_, err := render.ForFormat(f.key)
		assert.NoError(t, err, f.name)
	}
}

func TestExport_InvalidInputSkipsFetch(t *testing.T) {
	t.Setenv("FEEDPIPE_TIMEOUT", "")
	t.Setenv("FEEDPIPE_LOG_LEVEL", "")
	rootCmd.SetArgs([]string{"export", "   ", "--txt", "--output_dir", t.TempDir()})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		for _, f := range formatFlags {
			f.set = false
		}
	})

	err := rootCmd.Execute()
	var inputErr *core.InputError
	require.True(t, errors.As(err, &inputErr), "got %v", err)
	assert.Equal(t, "empty feed identifier", err.Error())
}

func TestExport_MissingPDFFont(t *testing.T) {
	t.Setenv("FEEDPIPE_TIMEOUT", "")
	t.Setenv("FEEDPIPE_LOG_LEVEL", "")
	t.Setenv("FEEDPIPE_PDF_FONT", "")
	font := filepath.Join(t.TempDir(), "missing.ttf")
	rootCmd.SetArgs([]string{"export", "hello", "--pdf", "--pdf_font", font, "--output_dir", t.TempDir()})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		for _, f := range formatFlags {
			f.set = false
		}
		flagPDFFont = ""
		exportCmd.Flags().Lookup("pdf_font").Changed = false
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf font")
}
