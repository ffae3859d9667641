package docgen

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMissingMetadata = errors.New("missing document metadata")

const (
	DefaultRoleTitle        = "HIỆU TRƯỞNG"
	governingBodyPlaceholder = "UBND................."
	nationalMotto            = "CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM"
	nationalSlogan           = "Độc lập - Tự do - Hạnh phúc"
	ruleLine                 = "__________"

	templateSize = 24 // 12pt
	sloganSize   = 26 // 13pt
)

// AssemblerOption 组装器选项
type AssemblerOption func(*Assembler)

// WithClock 设置日期行使用的时钟
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRoleTitle 设置落款处的职务名称
func WithRoleTitle(title string) AssemblerOption {
	return func(a *Assembler) {
		if t := strings.TrimSpace(title); t != "" {
			a.roleTitle = t
		}
	}
}

// Assembler 用文头和落款包裹正文
type Assembler struct {
	now       func() time.Time
	roleTitle string
}

// NewAssembler 创建模板组装器
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now:       time.Now,
		roleTitle: DefaultRoleTitle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble 组装完整文档，正文块保持原样
func (a *Assembler) Assemble(body []Block, meta *Metadata) (*Document, error) {
	if meta == nil {
		return nil, ErrMissingMetadata
	}
	return &Document{
		Letterhead: a.letterhead(meta),
		Body:       body,
		Signature:  a.signature(meta),
	}, nil
}

// letterhead 文头：左侧机关名称，右侧国号标语和日期
func (a *Assembler) letterhead(meta *Metadata) Block {
	governingBody := meta.GoverningBody
	if strings.TrimSpace(governingBody) == "" {
		governingBody = governingBodyPlaceholder
	}

	left := Cell{Lines: []Paragraph{
		templateLine(AlignCenter, templateSize, Run{Text: upper(governingBody)}),
		templateLine(AlignCenter, templateSize, Run{Text: upper(meta.UnitName), Bold: true}),
		withSpacing(templateLine(AlignCenter, templateSize, Run{Text: ruleLine, Bold: true}), 0, 100),
	}}

	date := templateLine(AlignRight, sloganSize, Run{Text: a.dateLine(), Italic: true})
	date.IndentRight = 300
	date.SpaceBefore = 200

	right := Cell{Lines: []Paragraph{
		templateLine(AlignCenter, templateSize, Run{Text: nationalMotto, Bold: true}),
		templateLine(AlignCenter, sloganSize, Run{Text: nationalSlogan, Bold: true, Underline: true}),
		date,
	}}

	return NewTableBlock(Table{
		Rows:       []Row{{Cells: []Cell{left, right}}},
		Borderless: true,
		Widths:     []int{45, 55},
	})
}

// signature 落款：左侧收件单位，右侧职务和签名人
func (a *Assembler) signature(meta *Metadata) Block {
	left := Cell{Lines: []Paragraph{
		templateLine(AlignLeft, templateSize, Run{Text: "Nơi nhận:", Bold: true, Italic: true}),
		templateLine(AlignLeft, templateSize, Run{Text: "- Phòng Giáo dục và Đào tạo (để báo cáo);"}),
		templateLine(AlignLeft, templateSize, Run{Text: fmt.Sprintf("- Toàn thể viên chức, người lao động %s (để thực hiện);", meta.UnitName)}),
		templateLine(AlignLeft, templateSize, Run{Text: "- Lưu: VT."}),
	}}

	right := Cell{Lines: []Paragraph{
		templateLine(AlignCenter, templateSize, Run{Text: upper(strings.TrimSpace(a.roleTitle + " " + meta.UnitName)), Bold: true}),
		withSpacing(blankParagraph(), 1000, 0),
		templateLine(AlignCenter, templateSize, Run{Text: meta.ManagerName, Bold: true}),
	}}

	return NewTableBlock(Table{
		Rows:       []Row{{Cells: []Cell{left, right}}},
		Borderless: true,
		Widths:     []int{50, 50},
	})
}

func (a *Assembler) dateLine() string {
	now := a.now()
	return fmt.Sprintf("........., ngày %d tháng %d năm %d", now.Day(), int(now.Month()), now.Year())
}

// DefaultSchoolYear 当前学年，如 "2024 - 2025"
func DefaultSchoolYear(now time.Time) string {
	return fmt.Sprintf("%d - %d", now.Year(), now.Year()+1)
}

func templateLine(align Alignment, size int, run Run) Paragraph {
	return Paragraph{Runs: []Run{run}, Align: align, Size: size}
}

func withSpacing(p Paragraph, before, after int) Paragraph {
	p.SpaceBefore = before
	p.SpaceAfter = after
	return p
}
