package docgen

import (
	"strconv"

	"github.com/beevik/etree"
)

// WordElementHandler 将文档块转换为 WordprocessingML 元素
type WordElementHandler struct {
	styles    *StyleResolver
	textWidth int // 版心宽度 twip，用于计算表格列宽
}

// NewWordElementHandler 创建Word元素处理器
func NewWordElementHandler(styles *StyleResolver, textWidth int) *WordElementHandler {
	return &WordElementHandler{
		styles:    styles,
		textWidth: textWidth,
	}
}

// AppendBlock 追加一个块到 body
func (h *WordElementHandler) AppendBlock(body *etree.Element, b Block) {
	switch b.Kind {
	case BlockHeading:
		h.appendHeading(body, b.Heading)
	case BlockParagraph:
		h.appendParagraph(body, b.Paragraph)
	case BlockTable:
		h.appendTable(body, b.Table)
	}
}

func (h *WordElementHandler) appendHeading(parent *etree.Element, hd *Heading) {
	pStyle, tStyle := h.styles.Heading(hd.Level)
	p := parent.CreateElement("w:p")
	writeParagraphProps(p, pStyle)
	writeRun(p, Run{Text: hd.Text}, tStyle)
}

func (h *WordElementHandler) appendParagraph(parent *etree.Element, para *Paragraph) {
	var (
		pStyle ParagraphStyle
		tStyle TextStyle
	)
	if isTemplateParagraph(para) {
		pStyle, tStyle = h.styles.Template(para)
	} else {
		pStyle, tStyle = h.styles.Body()
	}
	h.writeParagraph(parent, para, pStyle, tStyle)
}

func (h *WordElementHandler) writeParagraph(parent *etree.Element, para *Paragraph, pStyle ParagraphStyle, tStyle TextStyle) {
	p := parent.CreateElement("w:p")
	writeParagraphProps(p, pStyle)
	for _, r := range para.Runs {
		writeRun(p, r, h.styles.Apply(tStyle, r))
	}
}

func (h *WordElementHandler) appendTable(parent *etree.Element, t *Table) {
	columns := t.ColumnCount()
	if columns == 0 {
		return
	}
	widths := columnWidths(t.Widths, columns)

	tbl := parent.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "5000")
	tblW.CreateAttr("w:type", "pct")
	tblInd := tblPr.CreateElement("w:tblInd")
	tblInd.CreateAttr("w:w", "0")
	tblInd.CreateAttr("w:type", "dxa")
	borderVal := "single"
	if t.Borderless {
		borderVal = "nil"
	}
	writeBorders(tblPr.CreateElement("w:tblBorders"), borderVal, borderSize,
		"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV")
	tblPr.CreateElement("w:tblLayout").CreateAttr("w:type", "fixed")

	grid := tbl.CreateElement("w:tblGrid")
	for _, pct := range widths {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(h.textWidth*pct/100))
	}

	for _, row := range t.Rows {
		tr := tbl.CreateElement("w:tr")
		for i := range row.Cells {
			h.appendCell(tr, &row.Cells[i], widths[min(i, len(widths)-1)], t.Borderless)
		}
	}
}

func (h *WordElementHandler) appendCell(tr *etree.Element, c *Cell, pct int, borderless bool) {
	style := h.styles.Cell(c, borderless)

	tc := tr.CreateElement("w:tc")
	tcPr := tc.CreateElement("w:tcPr")
	tcW := tcPr.CreateElement("w:tcW")
	tcW.CreateAttr("w:w", strconv.Itoa(pct*50))
	tcW.CreateAttr("w:type", "pct")
	writeBorders(tcPr.CreateElement("w:tcBorders"), style.Border, style.BorderSize,
		"w:top", "w:left", "w:bottom", "w:right")
	if style.Fill != "" {
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", style.Fill)
	}
	setVal(tcPr.CreateElement("w:vAlign"), style.VAlign)

	// 单元格至少包含一个段落
	if len(c.Lines) > 0 {
		for i := range c.Lines {
			pStyle, tStyle := h.styles.Template(&c.Lines[i])
			h.writeParagraph(tc, &c.Lines[i], pStyle, tStyle)
		}
		return
	}
	pStyle, tStyle := h.styles.CellParagraph(c)
	h.writeParagraph(tc, &Paragraph{Runs: c.Runs}, pStyle, tStyle)
}

// isTemplateParagraph 带有排版提示的段落来自模板
func isTemplateParagraph(p *Paragraph) bool {
	return p.Align != AlignDefault || p.Size > 0 || p.SpaceBefore > 0 || p.SpaceAfter > 0 || p.IndentRight > 0
}

// columnWidths 返回每列宽度百分比，未指定时平均分配
func columnWidths(widths []int, columns int) []int {
	if len(widths) == columns {
		return widths
	}
	even := make([]int, columns)
	for i := range even {
		even[i] = 100 / columns
	}
	return even
}

func writeParagraphProps(p *etree.Element, style ParagraphStyle) {
	pPr := p.CreateElement("w:pPr")
	if style.StyleID != "" {
		setVal(pPr.CreateElement("w:pStyle"), style.StyleID)
	}

	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:before", strconv.Itoa(style.Before))
	spacing.CreateAttr("w:after", strconv.Itoa(style.After))
	if style.Line > 0 {
		spacing.CreateAttr("w:line", strconv.Itoa(style.Line))
		spacing.CreateAttr("w:lineRule", "auto")
	}

	if style.FirstLineIndent > 0 || style.IndentRight > 0 {
		ind := pPr.CreateElement("w:ind")
		if style.FirstLineIndent > 0 {
			ind.CreateAttr("w:firstLine", strconv.Itoa(style.FirstLineIndent))
		}
		if style.IndentRight > 0 {
			ind.CreateAttr("w:right", strconv.Itoa(style.IndentRight))
		}
	}

	if jc := style.Align.String(); jc != "" {
		setVal(pPr.CreateElement("w:jc"), jc)
	}
}

func writeRun(p *etree.Element, r Run, style TextStyle) {
	run := p.CreateElement("w:r")
	writeRunProps(run, style)
	t := run.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(r.Text)
}

func writeRunProps(run *etree.Element, style TextStyle) {
	rPr := run.CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	for _, attr := range []string{"w:ascii", "w:hAnsi", "w:cs", "w:eastAsia"} {
		fonts.CreateAttr(attr, style.Font)
	}
	if style.Bold {
		rPr.CreateElement("w:b")
	}
	if style.Italic {
		rPr.CreateElement("w:i")
	}
	setVal(rPr.CreateElement("w:color"), style.Color)
	size := strconv.Itoa(style.Size)
	setVal(rPr.CreateElement("w:sz"), size)
	setVal(rPr.CreateElement("w:szCs"), size)
	if style.Underline {
		setVal(rPr.CreateElement("w:u"), "single")
	}
}

func writeBorders(parent *etree.Element, val string, size int, sides ...string) {
	for _, side := range sides {
		b := setVal(parent.CreateElement(side), val)
		if val == "nil" {
			continue
		}
		b.CreateAttr("w:sz", strconv.Itoa(size))
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", textColor)
	}
}

func setVal(el *etree.Element, val string) *etree.Element {
	el.CreateAttr("w:val", val)
	return el
}
