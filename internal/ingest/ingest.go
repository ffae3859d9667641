package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/tsawler/tabula"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/pkg/logger"
)

// Kind 参考资料类型
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

// Group 参考资料在提示词中的分组
type Group string

const (
	GroupLegal       Group = "legal"       // 法规依据
	GroupRequirement Group = "requirement" // 要求与标准
	GroupTemplate    Group = "template"    // 参考模板
)

// Reference 提取后的参考资料
type Reference struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Group   Group  `json:"group"`
	Content string `json:"content"`
}

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Extractor 参考资料文本提取器
type Extractor struct {
	maxSize int64
}

// NewExtractor 创建提取器，maxSize 为 0 时不限制大小
func NewExtractor(maxSize int64) *Extractor {
	return &Extractor{maxSize: maxSize}
}

// Extract 识别文件类型并提取纯文本
func (e *Extractor) Extract(name string, data []byte) (*Reference, error) {
	if e.maxSize > 0 && int64(len(data)) > e.maxSize {
		return nil, constant.ErrPayloadTooLarge
	}

	kind, err := DetectKind(name, data)
	if err != nil {
		return nil, err
	}

	ref := &Reference{Name: filepath.Base(name), Kind: kind}
	if kind == KindText {
		ref.Content = strings.TrimSpace(string(data))
		return ref, nil
	}

	content, err := extractWithTabula(kind, data)
	if err != nil {
		logger.Error("提取参考资料失败", logger.F("name", name), logger.F("error", err))
		return nil, fmt.Errorf("%w: %v", constant.ErrExtractFailed, err)
	}
	ref.Content = content
	return ref, nil
}

// DetectKind 根据文件内容识别类型，内容无法识别时参考扩展名
func DetectKind(name string, data []byte) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))

	t, err := filetype.Match(data)
	if err == nil && t != filetype.Unknown {
		switch t.Extension {
		case "pdf":
			return KindPDF, nil
		case "docx":
			return KindDOCX, nil
		case "zip":
			if ext == ".docx" {
				return KindDOCX, nil
			}
		}
		return "", constant.ErrUnsupportedFile
	}

	if textExtensions[ext] && utf8.Valid(data) {
		return KindText, nil
	}
	return "", constant.ErrUnsupportedFile
}

// extractWithTabula tabula 按扩展名识别格式，先写入临时文件
func extractWithTabula(kind Kind, data []byte) (string, error) {
	f, err := os.CreateTemp("", "reference-*."+string(kind))
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	text, warnings, err := tabula.Open(f.Name()).Text()
	if err != nil {
		return "", err
	}
	if len(warnings) > 0 {
		logger.Warn("提取参考资料存在警告", logger.F("count", len(warnings)))
	}
	return strings.TrimSpace(text), nil
}
