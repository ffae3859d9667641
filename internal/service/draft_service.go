package service

import (
	"context"
	"time"

	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/pkg/docgen"
)

type draftService struct {
	extractor *ingest.Extractor
	generator *generator.Generator
	now       func() time.Time
}

func NewDraftService(extractor *ingest.Extractor, gen *generator.Generator) *draftService {
	return &draftService{
		extractor: extractor,
		generator: gen,
		now:       time.Now,
	}
}

// Ingest 提取上传文件的文本并标记分组
func (s *draftService) Ingest(name string, data []byte, group ingest.Group) (*ingest.Reference, error) {
	ref, err := s.extractor.Extract(name, data)
	if err != nil {
		return nil, err
	}
	ref.Group = group
	return ref, nil
}

// ExtractMetadata 提取文档信息并合并到当前值，学年为空时按当前日期补全
func (s *draftService) ExtractMetadata(ctx context.Context, current docgen.Metadata, refs []ingest.Reference) (docgen.Metadata, error) {
	extracted, err := s.generator.ExtractMetadata(ctx, refs)
	if err != nil {
		return current, err
	}
	meta := generator.MergeMetadata(current, extracted)
	if meta.SchoolYear == "" {
		meta.SchoolYear = docgen.DefaultSchoolYear(s.now())
	}
	return meta, nil
}

func (s *draftService) GenerateOutline(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference) ([]generator.OutlineItem, error) {
	return s.generator.GenerateOutline(ctx, meta, refs)
}

// Models 允许按请求指定的模型
func (s *draftService) Models() []string {
	return s.generator.Models()
}

func (s *draftService) GenerateDraft(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference, outline []generator.OutlineItem) (string, error) {
	return s.generator.GenerateDraft(ctx, meta, refs, outline)
}
