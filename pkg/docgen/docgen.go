package docgen

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// DefaultFileName 文档类型为空时使用的文件名
const DefaultFileName = "Van_ban"

// Config 文档生成配置
type Config struct {
	HeadingThreshold int
	RoleTitle        string
	FontFamily       string
	Page             PageSetup
	Now              func() time.Time
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		HeadingThreshold: DefaultHeadingThreshold,
		RoleTitle:        DefaultRoleTitle,
		FontFamily:       DefaultFontFamily,
		Page:             DefaultPageSetup(),
		Now:              time.Now,
	}
}

// DocGenerator Word文档生成器
type DocGenerator struct {
	parser    *Parser
	assembler *Assembler
	builder   *DocxBuilder
	html      *HtmlConverter
}

// NewDocGenerator 创建一个新的Word文档生成器
func NewDocGenerator(cfg Config) *DocGenerator {
	if cfg.Page.Width == 0 {
		cfg.Page = DefaultPageSetup()
	}
	return &DocGenerator{
		parser:    NewParser(WithHeadingThreshold(cfg.HeadingThreshold)),
		assembler: NewAssembler(WithClock(cfg.Now), WithRoleTitle(cfg.RoleTitle)),
		builder:   NewDocxBuilder(NewStyleResolver(cfg.FontFamily), cfg.Page),
		html:      NewHtmlConverter(),
	}
}

// Build 解析草稿并组装完整文档
func (g *DocGenerator) Build(draft string, meta *Metadata) (*Document, error) {
	return g.assembler.Assemble(g.parser.Parse(draft), meta)
}

// Render 生成文档并以DOCX格式写入 w
func (g *DocGenerator) Render(w io.Writer, draft string, meta *Metadata) error {
	doc, err := g.Build(draft, meta)
	if err != nil {
		return err
	}
	return g.WriteDocument(w, doc)
}

// WriteDocument 将已组装的文档以DOCX格式写入 w
func (g *DocGenerator) WriteDocument(w io.Writer, doc *Document) error {
	return g.builder.Write(w, doc)
}

// RenderString 从草稿字符串生成Word文档
func (g *DocGenerator) RenderString(draft string, meta *Metadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Render(&buf, draft, meta); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderReader 从Reader读取草稿并生成Word文档
func (g *DocGenerator) RenderReader(reader io.Reader, meta *Metadata) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, reader); err != nil {
		return nil, err
	}
	return g.RenderString(buf.String(), meta)
}

// Preview 草稿的HTML预览
func (g *DocGenerator) Preview(draft string) (string, error) {
	return g.html.Convert(draft)
}

// FileName 根据文档类型生成文件名，如 "Kế hoạch" -> "ke_hoach.docx"
func FileName(documentType string) string {
	name := strings.ReplaceAll(slug.Make(documentType), "-", "_")
	if name == "" {
		name = DefaultFileName
	}
	return name + ".docx"
}
