package docgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.September, 5, 8, 0, 0, 0, time.Local)
}

func testMetadata() *Metadata {
	return &Metadata{
		DocumentType:  "Kế hoạch",
		GoverningBody: "UBND huyện Tân Phú",
		UnitName:      "Trường THCS An Bình",
		ManagerName:   "Nguyễn Văn A",
		SchoolYear:    "2024 - 2025",
	}
}

func cellTexts(c Cell) []string {
	var texts []string
	for i := range c.Lines {
		texts = append(texts, c.Lines[i].Text())
	}
	return texts
}

func TestAssembleMissingMetadata(t *testing.T) {
	doc, err := NewAssembler().Assemble(nil, nil)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrMissingMetadata)
}

func TestLetterhead(t *testing.T) {
	a := NewAssembler(WithClock(fixedClock))
	doc, err := a.Assemble(nil, testMetadata())
	require.NoError(t, err)

	require.Equal(t, BlockTable, doc.Letterhead.Kind)
	table := doc.Letterhead.Table
	assert.True(t, table.Borderless)
	assert.Equal(t, []int{45, 55}, table.Widths)
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0].Cells, 2)

	left, right := table.Rows[0].Cells[0], table.Rows[0].Cells[1]
	assert.Equal(t, []string{"UBND HUYỆN TÂN PHÚ", "TRƯỜNG THCS AN BÌNH", "__________"}, cellTexts(left))
	assert.True(t, left.Lines[1].Runs[0].Bold)

	assert.Equal(t, []string{
		"CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM",
		"Độc lập - Tự do - Hạnh phúc",
		"........., ngày 5 tháng 9 năm 2024",
	}, cellTexts(right))
	assert.True(t, right.Lines[1].Runs[0].Underline)
	assert.True(t, right.Lines[2].Runs[0].Italic)
	assert.Equal(t, AlignRight, right.Lines[2].Align)
}

func TestLetterheadPlaceholder(t *testing.T) {
	meta := testMetadata()
	meta.GoverningBody = "  "
	doc, err := NewAssembler().Assemble(nil, meta)
	require.NoError(t, err)
	assert.Equal(t, "UBND.................", doc.Letterhead.Table.Rows[0].Cells[0].Lines[0].Text())
}

func TestSignature(t *testing.T) {
	doc, err := NewAssembler().Assemble(nil, testMetadata())
	require.NoError(t, err)

	require.Equal(t, BlockTable, doc.Signature.Kind)
	table := doc.Signature.Table
	assert.True(t, table.Borderless)
	assert.Equal(t, []int{50, 50}, table.Widths)

	left, right := table.Rows[0].Cells[0], table.Rows[0].Cells[1]
	assert.Equal(t, []string{
		"Nơi nhận:",
		"- Phòng Giáo dục và Đào tạo (để báo cáo);",
		"- Toàn thể viên chức, người lao động Trường THCS An Bình (để thực hiện);",
		"- Lưu: VT.",
	}, cellTexts(left))
	assert.True(t, left.Lines[0].Runs[0].Bold)
	assert.True(t, left.Lines[0].Runs[0].Italic)

	assert.Equal(t, []string{"HIỆU TRƯỞNG TRƯỜNG THCS AN BÌNH", "", "Nguyễn Văn A"}, cellTexts(right))
	assert.Equal(t, 1000, right.Lines[1].SpaceBefore)
	assert.True(t, right.Lines[2].Runs[0].Bold)
}

func TestWithRoleTitle(t *testing.T) {
	doc, err := NewAssembler(WithRoleTitle("Giám đốc")).Assemble(nil, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "GIÁM ĐỐC TRƯỜNG THCS AN BÌNH", doc.Signature.Table.Rows[0].Cells[1].Lines[0].Text())
}

func TestAssembleRegionOrder(t *testing.T) {
	body := NewParser().Parse("# Kế hoạch\nNội dung")
	doc, err := NewAssembler().Assemble(body, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, body, doc.Body)

	blocks := doc.Blocks()
	require.Len(t, blocks, len(body)+4)
	assert.Equal(t, doc.Letterhead, blocks[0])
	assert.Equal(t, BlockParagraph, blocks[1].Kind)
	assert.Equal(t, 400, blocks[1].Paragraph.SpaceAfter)
	assert.Equal(t, body[0], blocks[2])
	assert.Equal(t, body[1], blocks[3])
	assert.Equal(t, BlockParagraph, blocks[4].Kind)
	assert.Equal(t, doc.Signature, blocks[5])
}

func TestDefaultSchoolYear(t *testing.T) {
	assert.Equal(t, "2024 - 2025", DefaultSchoolYear(fixedClock()))
}
