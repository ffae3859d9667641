package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relFooter   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relSettings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

	footerRelID = "rId2"
)

// PageSetup 页面设置，长度单位为 twip
type PageSetup struct {
	Width        int
	Height       int
	MarginTop    int
	MarginBottom int
	MarginLeft   int
	MarginRight  int
	FooterText   string
}

// DefaultPageSetup A4 纸，上下右 2cm，左 3cm
func DefaultPageSetup() PageSetup {
	return PageSetup{
		Width:        11906,
		Height:       16838,
		MarginTop:    1134,
		MarginBottom: 1134,
		MarginLeft:   1701,
		MarginRight:  1134,
		FooterText:   "Trang ",
	}
}

// TextWidth 版心宽度
func (p PageSetup) TextWidth() int {
	return p.Width - p.MarginLeft - p.MarginRight
}

// DocxBuilder 负责构建DOCX文档
type DocxBuilder struct {
	elementHandler *WordElementHandler
	styles         *StyleResolver
	page           PageSetup
}

// NewDocxBuilder 创建一个新的DOCX构建器
func NewDocxBuilder(styles *StyleResolver, page PageSetup) *DocxBuilder {
	return &DocxBuilder{
		elementHandler: NewWordElementHandler(styles, page.TextWidth()),
		styles:         styles,
		page:           page,
	}
}

// BuildDocx 构建DOCX文档
func (b *DocxBuilder) BuildDocx(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write 将文档按区域顺序写入 w
func (b *DocxBuilder) Write(w io.Writer, doc *Document) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		err = multierr.Append(err, zw.Close())
	}()

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", contentTypesXML()},
		{"_rels/.rels", packageRelsXML()},
		{"word/_rels/document.xml.rels", documentRelsXML()},
		{"word/styles.xml", b.stylesXML()},
		{"word/settings.xml", settingsXML()},
		{"word/footer1.xml", b.footerXML()},
		{"word/document.xml", b.documentXML(doc)},
	}
	for _, part := range parts {
		if err = writeXMLToZip(zw, part.name, part.doc); err != nil {
			return err
		}
	}
	return nil
}

func (b *DocxBuilder) documentXML(doc *Document) *etree.Document {
	xd := newXMLDocument()
	root := xd.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)

	body := root.CreateElement("w:body")
	for _, block := range doc.Blocks() {
		b.elementHandler.AppendBlock(body, block)
	}

	sectPr := body.CreateElement("w:sectPr")
	footerRef := sectPr.CreateElement("w:footerReference")
	footerRef.CreateAttr("w:type", "default")
	footerRef.CreateAttr("r:id", footerRelID)
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(b.page.Width))
	pgSz.CreateAttr("w:h", strconv.Itoa(b.page.Height))
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, kv := range [][2]string{
		{"w:top", strconv.Itoa(b.page.MarginTop)},
		{"w:right", strconv.Itoa(b.page.MarginRight)},
		{"w:bottom", strconv.Itoa(b.page.MarginBottom)},
		{"w:left", strconv.Itoa(b.page.MarginLeft)},
		{"w:header", "720"},
		{"w:footer", "720"},
		{"w:gutter", "0"},
	} {
		pgMar.CreateAttr(kv[0], kv[1])
	}
	return xd
}

// settingsXML 默认制表位 0.5 英寸，语言为越南语
func settingsXML() *etree.Document {
	xd := newXMLDocument()
	settings := xd.CreateElement("w:settings")
	settings.CreateAttr("xmlns:w", nsW)
	settings.CreateElement("w:defaultTabStop").CreateAttr("w:val", "720")
	settings.CreateElement("w:characterSpacingControl").CreateAttr("w:val", "doNotCompress")
	lang := settings.CreateElement("w:themeFontLang")
	lang.CreateAttr("w:val", "vi-VN")
	return xd
}

// footerXML 页脚：居中斜体灰色文字加页码域
func (b *DocxBuilder) footerXML() *etree.Document {
	xd := newXMLDocument()
	ftr := xd.CreateElement("w:ftr")
	ftr.CreateAttr("xmlns:w", nsW)
	ftr.CreateAttr("xmlns:r", nsR)

	style := b.styles.BaseText()
	style.Size = 18
	style.Color = "888888"
	style.Italic = true

	p := ftr.CreateElement("w:p")
	writeParagraphProps(p, ParagraphStyle{Align: AlignCenter})
	if b.page.FooterText != "" {
		writeRun(p, Run{Text: b.page.FooterText}, style)
	}
	fld := p.CreateElement("w:fldSimple")
	fld.CreateAttr("w:instr", "PAGE")
	writeRun(fld, Run{Text: "1"}, style)
	return xd
}

// stylesXML 默认字体与三级标题样式
func (b *DocxBuilder) stylesXML() *etree.Document {
	xd := newXMLDocument()
	styles := xd.CreateElement("w:styles")
	styles.CreateAttr("xmlns:w", nsW)

	base := b.styles.BaseText()
	writeRunProps(styles.CreateElement("w:docDefaults").CreateElement("w:rPrDefault"), base)

	normal := newStyle(styles, "paragraph", "Normal", "Normal")
	normal.CreateElement("w:qFormat")

	for level := 1; level <= 3; level++ {
		pStyle, tStyle := b.styles.Heading(level)
		s := newStyle(styles, "paragraph", pStyle.StyleID, "heading "+strconv.Itoa(level))
		setVal(s.CreateElement("w:basedOn"), "Normal")
		setVal(s.CreateElement("w:next"), "Normal")
		s.CreateElement("w:qFormat")
		pPr := s.CreateElement("w:pPr")
		pPr.CreateElement("w:keepNext")
		setVal(pPr.CreateElement("w:outlineLvl"), strconv.Itoa(level-1))
		writeRunProps(s, tStyle)
	}
	return xd
}

func newStyle(parent *etree.Element, typ, id, name string) *etree.Element {
	s := parent.CreateElement("w:style")
	s.CreateAttr("w:type", typ)
	s.CreateAttr("w:styleId", id)
	setVal(s.CreateElement("w:name"), name)
	return s
}

func contentTypesXML() *etree.Document {
	xd := newXMLDocument()
	types := xd.CreateElement("Types")
	types.CreateAttr("xmlns", nsCT)

	for _, d := range [][2]string{
		{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
		{"xml", "application/xml"},
	} {
		def := types.CreateElement("Default")
		def.CreateAttr("Extension", d[0])
		def.CreateAttr("ContentType", d[1])
	}
	for _, o := range [][2]string{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"},
		{"/word/footer1.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"},
	} {
		override := types.CreateElement("Override")
		override.CreateAttr("PartName", o[0])
		override.CreateAttr("ContentType", o[1])
	}
	return xd
}

func packageRelsXML() *etree.Document {
	return relationshipsXML([3]string{"rId1", relDocument, "word/document.xml"})
}

func documentRelsXML() *etree.Document {
	return relationshipsXML(
		[3]string{"rId1", relStyles, "styles.xml"},
		[3]string{footerRelID, relFooter, "footer1.xml"},
		[3]string{"rId3", relSettings, "settings.xml"},
	)
}

func relationshipsXML(rels ...[3]string) *etree.Document {
	xd := newXMLDocument()
	root := xd.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRel)
	for _, rel := range rels {
		r := root.CreateElement("Relationship")
		r.CreateAttr("Id", rel[0])
		r.CreateAttr("Type", rel[1])
		r.CreateAttr("Target", rel[2])
	}
	return xd
}

func newXMLDocument() *etree.Document {
	xd := etree.NewDocument()
	xd.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return xd
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
