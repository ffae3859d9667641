package generator

import (
	"fmt"
	"strings"

	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/pkg/docgen"
)

// 行政公文写作规范（TCVN 01-1:2011）
const systemInstruction = `Bạn là chuyên gia soạn thảo văn bản hành chính ngành giáo dục, đặc biệt ở cấp Trung học cơ sở (THCS).
Hãy phân tích tài liệu đầu vào và soạn văn bản mới tuân thủ quy định pháp luật và thể thức văn bản hành chính Việt Nam (TCVN 01-1:2011).

Quy tắc bắt buộc:
1. Văn phong trang trọng, chính xác, khách quan.
2. Cấu trúc rõ ràng, đánh số mục theo quy định (I, 1, a...).
3. Công thức toán học phức tạp viết bằng LaTeX trong dấu $. Không dùng dấu $ cho số phần trăm đơn giản, viết "50%".
4. Bảng biểu dùng Markdown Table chuẩn, không vẽ bằng ký tự.
5. Không dùng thẻ tự chế như [CENTER], [LEFT], [b]. Chỉ dùng Markdown chuẩn (**in đậm**).
6. Nếu có mẫu tham khảo, tuân theo cách trình bày tiêu đề và cấu trúc của mẫu.`

var groupLabels = []struct {
	group ingest.Group
	label string
}{
	{ingest.GroupLegal, "TÀI LIỆU 1 (VĂN BẢN PHÁP QUY)"},
	{ingest.GroupRequirement, "TÀI LIỆU 2 (TIÊU CHÍ, YÊU CẦU)"},
	{ingest.GroupTemplate, "TÀI LIỆU 3 (MẪU THAM KHẢO)"},
}

// metadataPrompt 从要求类资料中提取文档信息
func metadataPrompt(refs []ingest.Reference) Prompt {
	var sb strings.Builder
	sb.WriteString(`Phân tích các tài liệu tiêu chí, yêu cầu đính kèm và trích xuất thông tin để điền biểu mẫu.
Chỉ trả về một đối tượng JSON (không bọc trong khối markdown) với các trường:
{
  "documentType": "Tên loại văn bản cần xây dựng (ví dụ: Kế hoạch)",
  "governingBody": "Tên cơ quan chủ quản (ví dụ: UBND Thành phố...)",
  "unitName": "Tên đơn vị, trường (ví dụ: Trường THCS...)",
  "managerName": "Họ tên hiệu trưởng, người quản lý",
  "schoolYear": "Năm học (ví dụ: 2024 - 2025)"
}
Trường nào không tìm thấy thì để chuỗi rỗng. Ưu tiên thông tin mới nhất.
`)
	writeReferenceGroups(&sb, refs)
	return Prompt{Task: TaskMetadata, User: sb.String()}
}

// outlinePrompt 生成大纲
func outlinePrompt(meta docgen.Metadata, refs []ingest.Reference) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Hãy đóng vai chuyên gia hành chính.

NHIỆM VỤ: Lập giàn ý chi tiết cho văn bản "%s".

THÔNG TIN CƠ BẢN:
- Đơn vị: %s
- Người quản lý: %s
- Năm học: %s

TÀI LIỆU ĐẦU VÀO:
1. Văn bản pháp quy: dùng làm căn cứ pháp lý.
2. Tiêu chí, yêu cầu: nội dung chi tiết bắt buộc.
3. Mẫu tham khảo: khung sườn, cấu trúc đề mục.

YÊU CẦU KẾT QUẢ:
Chỉ trả về một mảng JSON hợp lệ (không bọc trong khối markdown), ví dụ:
[
  { "id": "1", "title": "I. CĂN CỨ PHÁP LÝ", "level": 1 },
  { "id": "2", "title": "1. Luật Giáo dục...", "level": 2 }
]
Dấu gạch chéo ngược trong chuỗi phải viết thành "\\". Không xuống dòng bên trong giá trị chuỗi.

LƯU Ý: Không đưa phần Quốc hiệu, Tiêu ngữ hay Số hiệu văn bản vào giàn ý vì phần mềm tự chèn. Bắt đầu từ tiêu đề văn bản hoặc phần I.
`, meta.DocumentType, meta.UnitName, meta.ManagerName, meta.SchoolYear)
	writeReferenceGroups(&sb, refs)
	return Prompt{Task: TaskOutline, System: systemInstruction, User: sb.String()}
}

// draftPrompt 按已确认的大纲生成全文
func draftPrompt(meta docgen.Metadata, refs []ingest.Reference, outline []OutlineItem) Prompt {
	var titles []string
	for _, item := range outline {
		if item.Selected {
			titles = append(titles, item.Title)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Hãy viết toàn bộ nội dung văn bản "%s".

THÔNG TIN:
- Trường: %s
- Hiệu trưởng: %s
- Năm học: %s

DỰA TRÊN GIÀN Ý ĐÃ DUYỆT:
%s

YÊU CẦU:
1. Viết đầy đủ nội dung cho từng mục trong giàn ý.
2. Trích dẫn chính xác văn bản pháp quy.
3. Điền chỉ tiêu, số liệu, yêu cầu cụ thể từ tài liệu tiêu chí.
4. Theo văn phong của mẫu tham khảo.
5. ĐỊNH DẠNG:
   - Không viết lại Quốc hiệu, Tiêu ngữ và tên đơn vị ở đầu văn bản (phần mềm tự chèn).
   - Bắt đầu ngay bằng tiêu đề văn bản, ví dụ:
     # QUY CHẾ
     ## ĐÁNH GIÁ, XẾP LOẠI...
   - Đề mục lớn (Phần I, Phần II...) dùng ## hoặc ###.
   - Chỉ dùng Markdown thuần, bảng biểu dùng Markdown Table chuẩn.
Nếu tài liệu yêu cầu biểu đồ, hãy mô tả bằng lời hoặc lập bảng số liệu thay thế.
`, meta.DocumentType, meta.UnitName, meta.ManagerName, meta.SchoolYear, strings.Join(titles, "\n"))
	writeReferenceGroups(&sb, refs)
	return Prompt{Task: TaskDraft, System: systemInstruction, User: sb.String()}
}

// writeReferenceGroups 按分组写入参考资料，空分组不输出
func writeReferenceGroups(sb *strings.Builder, refs []ingest.Reference) {
	for _, g := range groupLabels {
		var items []ingest.Reference
		for _, ref := range refs {
			if ref.Group == g.group {
				items = append(items, ref)
			}
		}
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(sb, "\n--- BẮT ĐẦU %s ---\n", g.label)
		for _, ref := range items {
			fmt.Fprintf(sb, "Nội dung file %s:\n%s\n", ref.Name, ref.Content)
		}
		fmt.Fprintf(sb, "--- KẾT THÚC %s ---\n", g.label)
	}
}
