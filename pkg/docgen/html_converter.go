package docgen

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// HtmlConverter 负责将草稿渲染为预览用的HTML
type HtmlConverter struct {
	markdown goldmark.Markdown
}

// NewHtmlConverter 创建一个新的HTML转换器
func NewHtmlConverter() *HtmlConverter {
	return &HtmlConverter{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // 表格
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		),
	}
}

// Convert 将草稿转换为HTML，原始HTML不会透传
func (c *HtmlConverter) Convert(draft string) (string, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(draft), &buf); err != nil {
		return "", err
	}
	return RemoveHtmlAttributes(buf.String()), nil
}

var (
	idAttrRegExp    = regexp.MustCompile(` id="[^"]*"`)
	classAttrRegExp = regexp.MustCompile(` class="[^"]*"`)
)

// RemoveHtmlAttributes 移除HTML标签中的 id 和 class 属性
func RemoveHtmlAttributes(html string) string {
	html = idAttrRegExp.ReplaceAllString(html, "")
	return classAttrRegExp.ReplaceAllString(html, "")
}
