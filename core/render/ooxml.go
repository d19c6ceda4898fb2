package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// part is one file inside an Office Open XML package.
type part struct {
	name string
	body string
}

// ooxmlFuncs are shared by the DOCX and PPTX part templates.
var ooxmlFuncs = template.FuncMap{
	"x": xmlText,
}

// xmlText escapes s for XML character data, dropping characters XML 1.0
// cannot represent.
func xmlText(s string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(clean))
	return b.String()
}

// partSpec names a package part and the template that renders it.
type partSpec struct {
	name string
	tmpl string
	data any
}

// executeParts renders each spec in order into a package part.
func executeParts(tmpl *template.Template, specs []partSpec) ([]part, error) {
	parts := make([]part, 0, len(specs))
	for _, spec := range specs {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, spec.tmpl, spec.data); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", spec.name, err)
		}
		parts = append(parts, part{name: spec.name, body: buf.String()})
	}
	return parts, nil
}

// writePackage zips parts in order. [Content_Types].xml must come first.
func writePackage(parts []part) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Now().UTC()
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

// corePropsPart is the docProps/core.xml shared by both formats.
const corePropsPart = `{{define "core"}}` + xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>{{x .Title}}</dc:title><dc:creator>FeedPipe</dc:creator><dcterms:created xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:created></cp:coreProperties>{{end}}`

const packageRelsCommon = `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>`

// coreProps feeds the "core" template.
type coreProps struct {
	Title   string
	Created string
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func created() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
