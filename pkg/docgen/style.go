package docgen

const (
	DefaultFontFamily = "Times New Roman"
	textColor         = "000000"
	baseSize          = 26 // 13pt
	headerFill        = "E7E6E6"
	borderSize        = 4 // 1/8 磅
)

// TextStyle 文本样式，Size 单位为半磅
type TextStyle struct {
	Font      string
	Color     string
	Size      int
	Bold      bool
	Italic    bool
	Underline bool
}

// ParagraphStyle 段落样式，长度单位为 twip，Line 为 1/240 行
type ParagraphStyle struct {
	StyleID         string
	Align           Alignment
	Before          int
	After           int
	Line            int
	FirstLineIndent int
	IndentRight     int
}

// CellStyle 单元格样式
type CellStyle struct {
	Border     string // single 或 nil
	BorderSize int
	VAlign     string
	Fill       string
}

type headingStyle struct {
	size  int
	align Alignment
}

// 一级标题最大，三级标题不大于二级
var headingStyles = map[int]headingStyle{
	1: {size: 28, align: AlignCenter},
	2: {size: 26, align: AlignCenter},
	3: {size: 26, align: AlignLeft},
}

// StyleResolver 为文档块计算展示属性，忽略来源文本中的任何格式提示
type StyleResolver struct {
	font string
}

// NewStyleResolver 创建样式解析器，font 为空时使用 Times New Roman
func NewStyleResolver(font string) *StyleResolver {
	if font == "" {
		font = DefaultFontFamily
	}
	return &StyleResolver{font: font}
}

// Font 字体名称
func (s *StyleResolver) Font() string {
	return s.font
}

// BaseText 基础文本样式
func (s *StyleResolver) BaseText() TextStyle {
	return TextStyle{Font: s.font, Color: textColor, Size: baseSize}
}

// Heading 标题样式，未知级别按三级处理
func (s *StyleResolver) Heading(level int) (ParagraphStyle, TextStyle) {
	hs, ok := headingStyles[level]
	if !ok {
		level = 3
		hs = headingStyles[level]
	}
	text := s.BaseText()
	text.Size = hs.size
	text.Bold = true
	return ParagraphStyle{
		StyleID: headingStyleID(level),
		Align:   hs.align,
		Before:  240,
		After:   240,
	}, text
}

// HeadingSize 标题字号（半磅）
func (s *StyleResolver) HeadingSize(level int) int {
	_, text := s.Heading(level)
	return text.Size
}

// Body 正文段落样式：两端对齐，首行缩进，1.5 倍行距
func (s *StyleResolver) Body() (ParagraphStyle, TextStyle) {
	return ParagraphStyle{
		Align:           AlignJustify,
		Before:          60,
		After:           60,
		Line:            360,
		FirstLineIndent: 720,
	}, s.BaseText()
}

// Template 文头落款等模板行样式，以段落上的提示为准
func (s *StyleResolver) Template(p *Paragraph) (ParagraphStyle, TextStyle) {
	text := s.BaseText()
	if p.Size > 0 {
		text.Size = p.Size
	}
	align := p.Align
	if align == AlignDefault {
		align = AlignLeft
	}
	return ParagraphStyle{
		Align:       align,
		Before:      p.SpaceBefore,
		After:       p.SpaceAfter,
		IndentRight: p.IndentRight,
	}, text
}

// CellParagraph 表格单元格内段落样式
func (s *StyleResolver) CellParagraph(c *Cell) (ParagraphStyle, TextStyle) {
	text := s.BaseText()
	text.Bold = c.Header
	return ParagraphStyle{Align: AlignLeft, Before: 60, After: 60}, text
}

// Cell 单元格样式，无边框表格用于文头和落款
func (s *StyleResolver) Cell(c *Cell, borderless bool) CellStyle {
	if borderless {
		return CellStyle{Border: "nil", VAlign: "top"}
	}
	style := CellStyle{Border: "single", BorderSize: borderSize, VAlign: "center"}
	if c.Header {
		style.Fill = headerFill
	}
	return style
}

// Apply 将文本片段自身的强调叠加到基础样式上
func (s *StyleResolver) Apply(base TextStyle, r Run) TextStyle {
	base.Bold = base.Bold || r.Bold
	base.Italic = base.Italic || r.Italic
	base.Underline = base.Underline || r.Underline
	return base
}

func headingStyleID(level int) string {
	switch level {
	case 1:
		return "Heading1"
	case 2:
		return "Heading2"
	default:
		return "Heading3"
	}
}
