package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/pkg/docgen"
	"github.com/yockii/docdraft/pkg/logger"
)

// Generator 调用大模型完成信息提取、大纲和正文生成
type Generator struct {
	llm     LLMClient
	models  []string
	allowed map[string]bool
}

// NewGenerator models 为允许按请求指定的模型
func NewGenerator(llm LLMClient, models ...string) *Generator {
	g := &Generator{llm: llm, allowed: make(map[string]bool)}
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" && !g.allowed[m] {
			g.allowed[m] = true
			g.models = append(g.models, m)
		}
	}
	return g
}

// Models 可选模型列表
func (g *Generator) Models() []string {
	return append([]string(nil), g.models...)
}

// ExtractMetadata 只使用要求类资料；没有此类资料时返回空结果
func (g *Generator) ExtractMetadata(ctx context.Context, refs []ingest.Reference) (docgen.Metadata, error) {
	var requirements []ingest.Reference
	for _, ref := range refs {
		if ref.Group == ingest.GroupRequirement {
			requirements = append(requirements, ref)
		}
	}
	if len(requirements) == 0 {
		return docgen.Metadata{}, nil
	}

	text, err := g.complete(ctx, metadataPrompt(requirements))
	if err != nil {
		return docgen.Metadata{}, err
	}
	return ParseMetadata(text), nil
}

// GenerateOutline 生成大纲
func (g *Generator) GenerateOutline(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference) ([]OutlineItem, error) {
	text, err := g.complete(ctx, outlinePrompt(meta, refs))
	if err != nil {
		return nil, err
	}
	items, err := ParseOutline(text)
	if err != nil {
		logger.Warn("解析大纲失败", logger.F("error", err))
		return nil, err
	}
	return items, nil
}

// GenerateDraft 按选中的大纲条目生成正文草稿
func (g *Generator) GenerateDraft(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference, outline []OutlineItem) (string, error) {
	selected := 0
	for _, item := range outline {
		if item.Selected {
			selected++
		}
	}
	if selected == 0 {
		return "", fmt.Errorf("%w: no outline item selected", constant.ErrInvalidParams)
	}

	text, err := g.complete(ctx, draftPrompt(meta, refs, outline))
	if err != nil {
		return "", err
	}
	draft := PostProcess(text)
	if draft == "" {
		return "", fmt.Errorf("%w: empty draft", constant.ErrModelResponse)
	}
	return draft, nil
}

func (g *Generator) complete(ctx context.Context, prompt Prompt) (string, error) {
	if model := modelFromContext(ctx); model != "" {
		if !g.allowed[model] {
			return "", fmt.Errorf("%w: unsupported model %s", constant.ErrInvalidParams, model)
		}
		prompt.Model = model
	}
	if g.llm == nil {
		return "", constant.ErrModelUnavailable
	}
	text, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		logger.Error("调用大模型失败", logger.F("task", prompt.Task), logger.F("model", prompt.Model), logger.F("error", err))
		return "", fmt.Errorf("%w: %v", constant.ErrModelUnavailable, err)
	}
	return text, nil
}

// PostProcess 去掉包裹整篇正文的代码块标记
func PostProcess(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		return ""
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
