package docgen

import "strings"

// Alignment 段落对齐方式，零值表示由样式解析器决定
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

// String 返回 WordprocessingML 中 w:jc 的取值
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "both"
	default:
		return ""
	}
}

// Run 行内文本片段，不跨行，创建后不再修改
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Heading 标题块，Text 已去除标记并转为大写
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Paragraph 段落块
// Align/Size/SpaceBefore/SpaceAfter/IndentRight 只由模板区域使用，正文段落保持零值
type Paragraph struct {
	Runs        []Run     `json:"runs"`
	Align       Alignment `json:"align,omitempty"`
	Size        int       `json:"size,omitempty"`        // 半磅
	SpaceBefore int       `json:"spaceBefore,omitempty"` // twip
	SpaceAfter  int       `json:"spaceAfter,omitempty"`  // twip
	IndentRight int       `json:"indentRight,omitempty"` // twip
}

// Text 段落纯文本
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Cell 表格单元格
// 解析得到的单元格使用 Runs，模板单元格使用多行 Lines
type Cell struct {
	Runs   []Run       `json:"runs,omitempty"`
	Header bool        `json:"header,omitempty"`
	Lines  []Paragraph `json:"lines,omitempty"`
}

// Row 表格行
type Row struct {
	Cells []Cell `json:"cells"`
}

// Table 表格块，所有行的单元格数与首行一致
type Table struct {
	Rows       []Row `json:"rows"`
	Borderless bool  `json:"borderless,omitempty"`
	Widths     []int `json:"widths,omitempty"` // 列宽百分比
}

// ColumnCount 列数，以首行为准
func (t *Table) ColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// BlockKind 块类型
type BlockKind int

const (
	BlockHeading BlockKind = iota + 1
	BlockParagraph
	BlockTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block 文档块，Kind 决定哪个字段非空
type Block struct {
	Kind      BlockKind  `json:"kind"`
	Heading   *Heading   `json:"heading,omitempty"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

// NewHeadingBlock 创建标题块
func NewHeadingBlock(level int, text string) Block {
	return Block{Kind: BlockHeading, Heading: &Heading{Level: level, Text: text}}
}

// NewParagraphBlock 创建段落块
func NewParagraphBlock(p Paragraph) Block {
	return Block{Kind: BlockParagraph, Paragraph: &p}
}

// NewTableBlock 创建表格块
func NewTableBlock(t Table) Block {
	return Block{Kind: BlockTable, Table: &t}
}

// blankParagraph 空行段落，仅含一个空文本片段
func blankParagraph() Paragraph {
	return Paragraph{Runs: []Run{{Text: ""}}}
}

// spacerBlock 区域之间的空白段落
func spacerBlock() Block {
	p := blankParagraph()
	p.SpaceAfter = 400
	return NewParagraphBlock(p)
}

// Metadata 文档元数据，只在组装模板时使用
type Metadata struct {
	DocumentType  string `json:"documentType" yaml:"documentType"`
	GoverningBody string `json:"governingBody" yaml:"governingBody"`
	UnitName      string `json:"unitName" yaml:"unitName"`
	ManagerName   string `json:"managerName" yaml:"managerName"`
	SchoolYear    string `json:"schoolYear" yaml:"schoolYear"`
}

// Document 完整文档：文头、正文、落款三个区域
type Document struct {
	Letterhead Block   `json:"letterhead"`
	Body       []Block `json:"body"`
	Signature  Block   `json:"signature"`
}

// Blocks 按输出顺序返回所有块：文头、空行、正文、空行、落款
func (d *Document) Blocks() []Block {
	blocks := make([]Block, 0, len(d.Body)+4)
	blocks = append(blocks, d.Letterhead, spacerBlock())
	blocks = append(blocks, d.Body...)
	blocks = append(blocks, spacerBlock(), d.Signature)
	return blocks
}
