package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/pkg/docgen"
)

// OutlineItem 大纲条目，Selected 表示是否写入正文
type OutlineItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Selected bool   `json:"selected"`
}

// cleanJSON 去掉代码块标记，截取首个 open 到最后一个 close 之间的内容
func cleanJSON(text string, open, close byte) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	if !gjson.Valid(text) {
		text = repairEscapes(text)
	}
	return text
}

// repairEscapes 模型常输出未转义的 LaTeX 反斜杠，补成合法的 JSON 转义
func repairEscapes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 < len(text) && strings.IndexByte(`"\/bfnrtu`, text[i+1]) >= 0 {
			sb.WriteByte(c)
			sb.WriteByte(text[i+1])
			i++
			continue
		}
		sb.WriteString(`\\`)
	}
	return sb.String()
}

// ParseOutline 解析模型返回的大纲数组，所有条目默认选中
func ParseOutline(text string) ([]OutlineItem, error) {
	raw := cleanJSON(text, '[', ']')
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: outline is not valid json", constant.ErrModelResponse)
	}
	res := gjson.Parse(raw)
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: outline is not an array", constant.ErrModelResponse)
	}

	var items []OutlineItem
	for i, v := range res.Array() {
		title := strings.TrimSpace(v.Get("title").String())
		if title == "" {
			continue
		}
		id := v.Get("id").String()
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		level := int(v.Get("level").Int())
		if level < 1 {
			level = 1
		}
		items = append(items, OutlineItem{ID: id, Title: title, Level: level, Selected: true})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: outline is empty", constant.ErrModelResponse)
	}
	return items, nil
}

// ParseMetadata 解析模型返回的文档信息，无法解析时返回空结果
func ParseMetadata(text string) docgen.Metadata {
	raw := cleanJSON(text, '{', '}')
	if !gjson.Valid(raw) {
		return docgen.Metadata{}
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return docgen.Metadata{}
	}
	field := func(key string) string {
		return strings.TrimSpace(res.Get(key).String())
	}
	return docgen.Metadata{
		DocumentType:  field("documentType"),
		GoverningBody: field("governingBody"),
		UnitName:      field("unitName"),
		ManagerName:   field("managerName"),
		SchoolYear:    field("schoolYear"),
	}
}

// MergeMetadata 提取结果中的非空字段覆盖当前值
func MergeMetadata(current, extracted docgen.Metadata) docgen.Metadata {
	pick := func(cur, ext string) string {
		if ext != "" {
			return ext
		}
		return cur
	}
	return docgen.Metadata{
		DocumentType:  pick(current.DocumentType, extracted.DocumentType),
		GoverningBody: pick(current.GoverningBody, extracted.GoverningBody),
		UnitName:      pick(current.UnitName, extracted.UnitName),
		ManagerName:   pick(current.ManagerName, extracted.ManagerName),
		SchoolYear:    pick(current.SchoolYear, extracted.SchoolYear),
	}
}
