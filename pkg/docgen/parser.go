package docgen

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultHeadingThreshold 整行粗体被视为二级标题的最大长度（不含）
const DefaultHeadingThreshold = 100

// ParserOption 解析器选项
type ParserOption func(*Parser)

// WithHeadingThreshold 设置整行粗体标题的长度阈值，非正数时使用默认值
func WithHeadingThreshold(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.headingThreshold = n
		}
	}
}

// Parser 将草稿文本解析为块列表
// 解析状态只存在于单次调用中，可以并发使用
type Parser struct {
	headingThreshold int
}

// NewParser 创建解析器
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{headingThreshold: DefaultHeadingThreshold}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse 解析草稿，任何输入都会得到结果，不会失败
func (p *Parser) Parse(draft string) []Block {
	var (
		blocks      []Block
		tableBuffer []string
	)

	flush := func() {
		if len(tableBuffer) == 0 {
			return
		}
		if t, ok := buildTable(tableBuffer); ok {
			blocks = append(blocks, NewTableBlock(t))
		}
		tableBuffer = nil
	}

	for _, raw := range strings.Split(norm.NFC.String(draft), "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "|") {
			tableBuffer = append(tableBuffer, line)
			continue
		}
		flush()

		if line == "" {
			blocks = append(blocks, NewParagraphBlock(blankParagraph()))
			continue
		}

		if level, text, ok := p.classifyHeading(line); ok {
			blocks = append(blocks, NewHeadingBlock(level, upper(text)))
			continue
		}

		runs := SplitRuns(line)
		if len(runs) == 0 {
			// 只剩标记（如 "****"），按字面输出
			runs = []Run{{Text: line}}
		}
		blocks = append(blocks, NewParagraphBlock(Paragraph{Runs: runs}))
	}
	flush()

	return blocks
}

// classifyHeading 判断标题级别，返回去除标记后的文本
func (p *Parser) classifyHeading(line string) (int, string, bool) {
	switch {
	case strings.HasPrefix(line, "# "):
		return 1, stripHeadingMarkup(line[2:]), true
	case strings.HasPrefix(line, "## "):
		return 2, stripHeadingMarkup(line[3:]), true
	case strings.HasPrefix(line, "### "):
		return 3, stripHeadingMarkup(line[4:]), true
	}

	if isWholeLineBold(line) && utf8.RuneCountInString(line) < p.headingThreshold {
		return 2, stripHeadingMarkup(line), true
	}
	return 0, "", false
}

// isWholeLineBold 整行是单个粗体片段
func isWholeLineBold(line string) bool {
	if len(line) <= 2*len(boldMarker) {
		return false
	}
	if !strings.HasPrefix(line, boldMarker) || !strings.HasSuffix(line, boldMarker) {
		return false
	}
	inner := line[len(boldMarker) : len(line)-len(boldMarker)]
	return !strings.Contains(inner, boldMarker)
}

func stripHeadingMarkup(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, boldMarker, ""))
}

// upper 按越南语规则转大写，Caser 不能跨协程共享，每次新建
func upper(s string) string {
	return cases.Upper(language.Vietnamese).String(s)
}

// buildTable 将缓存的表格行转换为表格，没有数据行时返回 false
func buildTable(lines []string) (Table, bool) {
	var rows [][]string
	for _, line := range lines {
		if isSeparatorRow(line) {
			continue
		}
		cells := splitTableRow(line)
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return Table{}, false
	}

	// 以表头列数为准，补齐或截断
	columns := len(rows[0])
	table := Table{Rows: make([]Row, 0, len(rows))}
	for i, cells := range rows {
		row := Row{Cells: make([]Cell, columns)}
		for j := 0; j < columns; j++ {
			cell := Cell{Header: i == 0}
			if j < len(cells) {
				cell.Runs = SplitRuns(cells[j])
			}
			row.Cells[j] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, true
}

// isSeparatorRow 分隔行只包含 |、-、: 和空白，且至少有一个 -
func isSeparatorRow(line string) bool {
	hasDash := false
	for _, r := range line {
		switch r {
		case '-':
			hasDash = true
		case '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return hasDash
}

// splitTableRow 按 | 切分单元格，去掉首尾管道符产生的空单元格
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if strings.HasPrefix(line, "|") {
		parts = parts[1:]
	}
	if strings.HasSuffix(line, "|") && len(parts) > 0 {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}
