// Package render: PPTX renderer.
// Writes a PresentationML package with a title slide for the channel and one
// "Title and Content" slide per post carrying the full, unsegmented content.
package render

import (
	"fmt"
	"text/template"

	"github.com/gaurav-prasanna/feedpipe/core"
)

const (
	pNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	relsNS      = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
	relType     = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/`
	groupShape  = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
	noGroup     = `<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`
	emptyPara   = `<a:p><a:endParaRPr lang="en-US"/></a:p>`
)

const pptxContentTypes = `{{define "pptx-types"}}` + xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout2.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`{{range .}}<Override PartName="/ppt/slides/slide{{.Number}}.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>{{end}}` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/></Types>{{end}}`

const pptxPackageRels = `{{define "pptx-rels"}}` + xmlHeader + `<Relationships ` + relsNS + `><Relationship Id="rId1" Type="` + relType + `officeDocument" Target="ppt/presentation.xml"/>` + packageRelsCommon + `</Relationships>{{end}}`

const pptxPresentation = `{{define "pptx-presentation"}}` + xmlHeader + `<p:presentation ` + pNamespaces + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst>{{range .}}<p:sldId id="{{.ID}}" r:id="{{.RelID}}"/>{{end}}</p:sldIdLst>` +
	`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>{{end}}`

const pptxPresentationRels = `{{define "pptx-presentation-rels"}}` + xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relType + `slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relType + `theme" Target="theme/theme1.xml"/>` +
	`{{range .}}<Relationship Id="{{.RelID}}" Type="` + relType + `slide" Target="slides/slide{{.Number}}.xml"/>{{end}}` +
	`</Relationships>{{end}}`

const pptxMaster = `{{define "pptx-master"}}` + xmlHeader + `<p:sldMaster ` + pNamespaces + `><p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + groupShape +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title Placeholder 1"/>` + noGroup + `<p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="457200" y="274638"/><a:ext cx="8229600" cy="1143000"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr anchor="ctr"><a:normAutofit/></a:bodyPr><a:lstStyle/>` + emptyPara + `</p:txBody></p:sp>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Text Placeholder 2"/>` + noGroup + `<p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="457200" y="1600200"/><a:ext cx="8229600" cy="4525963"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr><a:normAutofit/></a:bodyPr><a:lstStyle/>` + emptyPara + `</p:txBody></p:sp>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/><p:sldLayoutId id="2147483650" r:id="rId2"/></p:sldLayoutIdLst>` +
	`<p:txStyles>` +
	`<p:titleStyle><a:lvl1pPr algn="ctr" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1"><a:spcBef><a:spcPct val="0"/></a:spcBef><a:buNone/><a:defRPr sz="4000" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/><a:ea typeface="+mj-ea"/><a:cs typeface="+mj-cs"/></a:defRPr></a:lvl1pPr></p:titleStyle>` +
	`<p:bodyStyle><a:lvl1pPr marL="0" indent="0" algn="l" defTabSz="914400" rtl="0" eaLnBrk="1" latinLnBrk="0" hangingPunct="1"><a:spcBef><a:spcPct val="20000"/></a:spcBef><a:buNone/><a:defRPr sz="1800" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/><a:ea typeface="+mn-ea"/><a:cs typeface="+mn-cs"/></a:defRPr></a:lvl1pPr></p:bodyStyle>` +
	`<p:otherStyle><a:defPPr><a:defRPr lang="en-US"/></a:defPPr></p:otherStyle>` +
	`</p:txStyles></p:sldMaster>{{end}}`

const pptxMasterRels = `{{define "pptx-master-rels"}}` + xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relType + `slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relType + `slideLayout" Target="../slideLayouts/slideLayout2.xml"/>` +
	`<Relationship Id="rId3" Type="` + relType + `theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>{{end}}`

const pptxLayoutTitle = `{{define "pptx-layout-title"}}` + xmlHeader + `<p:sldLayout ` + pNamespaces + ` type="title" preserve="1"><p:cSld name="Title Slide"><p:spTree>` + groupShape +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/>` + noGroup + `<p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="685800" y="2130425"/><a:ext cx="7772400" cy="1470025"/></a:xfrm></p:spPr><p:txBody><a:bodyPr/><a:lstStyle/>` + emptyPara + `</p:txBody></p:sp>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>{{end}}`

const pptxLayoutContent = `{{define "pptx-layout-content"}}` + xmlHeader + `<p:sldLayout ` + pNamespaces + ` type="obj" preserve="1"><p:cSld name="Title and Content"><p:spTree>` + groupShape +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/>` + noGroup + `<p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` + emptyPara + `</p:txBody></p:sp>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/>` + noGroup + `<p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` + emptyPara + `</p:txBody></p:sp>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>{{end}}`

const pptxLayoutRels = `{{define "pptx-layout-rels"}}` + xmlHeader + `<Relationships ` + relsNS + `><Relationship Id="rId1" Type="` + relType + `slideMaster" Target="../slideMasters/slideMaster1.xml"/></Relationships>{{end}}`

const pptxTheme = `{{define "pptx-theme"}}` + xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office"><a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1><a:dk2><a:srgbClr val="1F497D"/></a:dk2><a:lt2><a:srgbClr val="EEECE1"/></a:lt2><a:accent1><a:srgbClr val="4F81BD"/></a:accent1><a:accent2><a:srgbClr val="C0504D"/></a:accent2><a:accent3><a:srgbClr val="9BBB59"/></a:accent3><a:accent4><a:srgbClr val="8064A2"/></a:accent4><a:accent5><a:srgbClr val="4BACC6"/></a:accent5><a:accent6><a:srgbClr val="F79646"/></a:accent6><a:hlink><a:srgbClr val="0000FF"/></a:hlink><a:folHlink><a:srgbClr val="800080"/></a:folHlink></a:clrScheme>` +
	`<a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>{{end}}`

const pptxSlidePart = `{{define "pptx-slide"}}` + xmlHeader + `<p:sld ` + pNamespaces + `><p:cSld><p:spTree>` + groupShape +
	`{{if .TitleSlide}}` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/>` + noGroup + `<p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>{{x .Title}}</a:t></a:r></a:p></p:txBody></p:sp>` +
	`{{else}}` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/>` + noGroup + `<p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>{{x .Title}}</a:t></a:r></a:p></p:txBody></p:sp>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/>` + noGroup + `<p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr><a:normAutofit/></a:bodyPr><a:lstStyle/>` +
	`{{range .Body}}{{if .}}<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>{{x .}}</a:t></a:r></a:p>{{else}}` + emptyPara + `{{end}}{{end}}` +
	`</p:txBody></p:sp>` +
	`{{end}}` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>{{end}}`

const pptxSlideRels = `{{define "pptx-slide-rels"}}` + xmlHeader + `<Relationships ` + relsNS + `><Relationship Id="rId1" Type="` + relType + `slideLayout" Target="../slideLayouts/slideLayout{{.Layout}}.xml"/></Relationships>{{end}}`

var pptxTemplates = template.Must(template.New("pptx").Funcs(ooxmlFuncs).Parse(
	pptxContentTypes + pptxPackageRels + pptxPresentation + pptxPresentationRels +
		pptxMaster + pptxMasterRels + pptxLayoutTitle + pptxLayoutContent + pptxLayoutRels +
		pptxTheme + pptxSlidePart + pptxSlideRels + corePropsPart,
))

// pptxSlide is one slide of the deck. Number is 1-based.
type pptxSlide struct {
	Number     int
	Layout     int
	TitleSlide bool
	Title      string
	Body       []string
}

// ID is the presentation-level slide id; PowerPoint requires ids >= 256.
func (s pptxSlide) ID() int { return 255 + s.Number }

// RelID is the slide's relationship id in presentation.xml.rels.
// rId1 and rId2 are taken by the master and the theme.
func (s pptxSlide) RelID() string { return fmt.Sprintf("rId%d", s.Number+2) }

// PPTXRenderer renders a feed as a slide deck.
type PPTXRenderer struct{}

// NewPPTXRenderer creates a PPTXRenderer.
func NewPPTXRenderer() *PPTXRenderer {
	return &PPTXRenderer{}
}

// Render builds the presentation package.
func (r *PPTXRenderer) Render(feed *core.Feed) ([]byte, error) {
	slides := deck(feed)

	specs := []partSpec{
		{name: "[Content_Types].xml", tmpl: "pptx-types", data: slides},
		{name: "_rels/.rels", tmpl: "pptx-rels"},
		{name: "docProps/core.xml", tmpl: "core", data: coreProps{Title: feed.Metadata.ChannelTitle, Created: created()}},
		{name: "ppt/presentation.xml", tmpl: "pptx-presentation", data: slides},
		{name: "ppt/_rels/presentation.xml.rels", tmpl: "pptx-presentation-rels", data: slides},
		{name: "ppt/slideMasters/slideMaster1.xml", tmpl: "pptx-master"},
		{name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", tmpl: "pptx-master-rels"},
		{name: "ppt/slideLayouts/slideLayout1.xml", tmpl: "pptx-layout-title"},
		{name: "ppt/slideLayouts/_rels/slideLayout1.xml.rels", tmpl: "pptx-layout-rels"},
		{name: "ppt/slideLayouts/slideLayout2.xml", tmpl: "pptx-layout-content"},
		{name: "ppt/slideLayouts/_rels/slideLayout2.xml.rels", tmpl: "pptx-layout-rels"},
		{name: "ppt/theme/theme1.xml", tmpl: "pptx-theme"},
	}
	for _, s := range slides {
		specs = append(specs,
			partSpec{name: fmt.Sprintf("ppt/slides/slide%d.xml", s.Number), tmpl: "pptx-slide", data: s},
			partSpec{name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.Number), tmpl: "pptx-slide-rels", data: s},
		)
	}

	parts, err := executeParts(pptxTemplates, specs)
	if err != nil {
		return nil, exportError("pptx", err)
	}
	data, err := writePackage(parts)
	if err != nil {
		return nil, exportError("pptx", err)
	}
	return data, nil
}

func deck(feed *core.Feed) []pptxSlide {
	slides := []pptxSlide{{Number: 1, Layout: 1, TitleSlide: true, Title: feed.Metadata.ChannelTitle}}
	for i, post := range feed.Posts {
		slides = append(slides, pptxSlide{
			Number: i + 2,
			Layout: 2,
			Title:  post.Title,
			Body:   splitLines(post.Content),
		})
	}
	return slides
}

// Extension returns the file extension for PPTX output.
func (r *PPTXRenderer) Extension() string {
	return ".pptx"
}

// ContentType returns the MIME type for PPTX output.
func (r *PPTXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}
