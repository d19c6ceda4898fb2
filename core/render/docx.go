// Package render: DOCX renderer.
// Writes a WordprocessingML package: Heading1 for the channel title, then per
// post a Heading2 and one "Body Text" paragraph per content segment.
package render

import (
	"text/template"

	"github.com/gaurav-prasanna/feedpipe/core"
)

const docxContentTypes = `{{define "docx-types"}}` + xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/><Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/></Types>{{end}}`

const docxPackageRels = `{{define "docx-rels"}}` + xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` + packageRelsCommon + `</Relationships>{{end}}`

const docxDocumentRels = `{{define "docx-document-rels"}}` + xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>{{end}}`

const docxStyles = `{{define "docx-styles"}}` + xmlHeader + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="480" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:color w:val="365F91"/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="200" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:color w:val="4F81BD"/><w:sz w:val="26"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="BodyText"><w:name w:val="Body Text"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>` +
	`</w:styles>{{end}}`

const docxDocument = `{{define "docx-document"}}` + xmlHeader + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`{{range .}}<w:p><w:pPr><w:pStyle w:val="{{.Style}}"/>{{if .Spacer}}<w:spacing w:before="240"/>{{end}}</w:pPr>{{if .Lines}}<w:r>{{range $i, $l := .Lines}}{{if $i}}<w:br/>{{end}}<w:t xml:space="preserve">{{x $l}}</w:t>{{end}}</w:r>{{end}}</w:p>{{end}}` +
	`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>` +
	`</w:body></w:document>{{end}}`

var docxTemplates = template.Must(template.New("docx").Funcs(ooxmlFuncs).Parse(
	docxContentTypes + docxPackageRels + docxDocumentRels + docxStyles + docxDocument + corePropsPart,
))

// docxParagraph is one w:p in the document body.
type docxParagraph struct {
	Style  string
	Lines  []string
	Spacer bool
}

// DOCXRenderer renders a feed as a Word document.
type DOCXRenderer struct{}

// NewDOCXRenderer creates a DOCXRenderer.
func NewDOCXRenderer() *DOCXRenderer {
	return &DOCXRenderer{}
}

// Render builds the document package.
func (r *DOCXRenderer) Render(feed *core.Feed) ([]byte, error) {
	parts, err := executeParts(docxTemplates, []partSpec{
		{name: "[Content_Types].xml", tmpl: "docx-types"},
		{name: "_rels/.rels", tmpl: "docx-rels"},
		{name: "docProps/core.xml", tmpl: "core", data: coreProps{Title: feed.Metadata.ChannelTitle, Created: created()}},
		{name: "word/_rels/document.xml.rels", tmpl: "docx-document-rels"},
		{name: "word/styles.xml", tmpl: "docx-styles"},
		{name: "word/document.xml", tmpl: "docx-document", data: docxBody(feed)},
	})
	if err != nil {
		return nil, exportError("docx", err)
	}
	data, err := writePackage(parts)
	if err != nil {
		return nil, exportError("docx", err)
	}
	return data, nil
}

func docxBody(feed *core.Feed) []docxParagraph {
	paras := []docxParagraph{{Style: "Heading1", Lines: []string{feed.Metadata.ChannelTitle}}}
	for _, post := range feed.Posts {
		paras = append(paras, docxParagraph{Style: "Heading2", Lines: []string{post.Title}})
		for _, seg := range segments(post.Content) {
			paras = append(paras, docxParagraph{Style: "BodyText", Lines: splitLines(seg)})
		}
		paras = append(paras, docxParagraph{Style: "Normal", Spacer: true})
	}
	return paras
}

// Extension returns the file extension for DOCX output.
func (r *DOCXRenderer) Extension() string {
	return ".docx"
}

// ContentType returns the MIME type for DOCX output.
func (r *DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
