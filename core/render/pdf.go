// Package render: PDF renderer.
// Lays out the feed with gofpdf: the channel title as a level 1 heading,
// then per post a level 2 heading and one paragraph per content segment.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/feedpipe/core"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin       = 25.4 // 1in, in mm
	pdfBottomMargin = 6.35 // 0.25in

	coreFontFamily = "Helvetica"
	utf8FontFamily = "feedpipe"
)

// PDFRenderer renders a feed as a Letter-sized PDF document.
//
// Without a font file it uses the built-in Helvetica, which only covers
// cp1252; characters outside it (CJK, Cyrillic, emoji) cannot be shown.
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer creates a PDFRenderer using the built-in fonts.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// NewPDFRendererWithFont creates a PDFRenderer that embeds the TrueType font
// at fontPath for all text. An empty path behaves like NewPDFRenderer.
func NewPDFRendererWithFont(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// Render converts the feed's posts into PDF bytes.
func (r *PDFRenderer) Render(feed *core.Feed) ([]byte, error) {
	fontDir := ""
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err != nil {
			return nil, exportError("pdf", fmt.Errorf("loading font: %w", err))
		}
		fontDir = filepath.Dir(r.fontPath)
	}

	pdf := gofpdf.New("P", "mm", "Letter", fontDir)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.SetTitle(feed.Metadata.ChannelTitle, true)
	pdf.SetCreator("FeedPipe", true)

	family := coreFontFamily
	// Core fonts are cp1252; translate UTF-8 text before writing.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		file := filepath.Base(r.fontPath)
		pdf.AddUTF8Font(utf8FontFamily, "", file)
		pdf.AddUTF8Font(utf8FontFamily, "B", file)
		if err := pdf.Error(); err != nil {
			return nil, exportError("pdf", fmt.Errorf("loading font: %w", err))
		}
		family = utf8FontFamily
		tr = func(s string) string { return s }
	}

	pdf.AddPage()

	renderHeading(pdf, family, tr(feed.Metadata.ChannelTitle), 1)
	pdf.Ln(6)

	for _, post := range feed.Posts {
		renderHeading(pdf, family, tr(post.Title), 2)
		pdf.Ln(3)
		for _, para := range segments(post.Content) {
			pdf.SetFont(family, "", 10)
			pdf.MultiCell(0, 5, tr(para), "", "L", false)
			pdf.Ln(2.5)
		}
		pdf.Ln(12.7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, exportError("pdf", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// ContentType returns the MIME type for PDF output.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, family, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 14, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.SetFont(family, "B", size)
	pdf.MultiCell(0, size*0.5, text, "", "L", false)
}
