package generator

import "context"

// MockLLM 离线调试用，按任务返回固定内容
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch prompt.Task {
	case TaskMetadata:
		return mockMetadata, nil
	case TaskOutline:
		return mockOutline, nil
	default:
		return mockDraft, nil
	}
}

const mockMetadata = `{
  "documentType": "Kế hoạch",
  "governingBody": "",
  "unitName": "",
  "managerName": "",
  "schoolYear": ""
}`

const mockOutline = "```json\n" + `[
  { "id": "1", "title": "I. MỤC ĐÍCH, YÊU CẦU", "level": 1 },
  { "id": "2", "title": "II. NỘI DUNG THỰC HIỆN", "level": 1 },
  { "id": "3", "title": "III. TỔ CHỨC THỰC HIỆN", "level": 1 }
]` + "\n```"

const mockDraft = `# KẾ HOẠCH
## THỰC HIỆN NHIỆM VỤ NĂM HỌC

### I. MỤC ĐÍCH, YÊU CẦU
Nâng cao chất lượng dạy và học, thực hiện **đầy đủ** chương trình giáo dục phổ thông.

### II. NỘI DUNG THỰC HIỆN
| STT | Nội dung | Thời gian |
|-----|----------|-----------|
| 1 | Khai giảng năm học | Tháng 9 |
| 2 | Sơ kết học kỳ I | Tháng 1 |

### III. TỔ CHỨC THỰC HIỆN
Các tổ chuyên môn căn cứ kế hoạch này để triển khai.`
