package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/pkg/docgen"
	"github.com/yockii/docdraft/pkg/logger"
)

// ExportRequest 导出请求
type ExportRequest struct {
	Draft    string           `json:"draft"`
	Metadata *docgen.Metadata `json:"metadata"`
}

// ExportResult 导出结果
type ExportResult struct {
	Record *model.ExportRecord
	Data   []byte
}

type exportService struct {
	*BaseServiceImpl[*model.ExportRecord]
	docGen *docgen.DocGenerator
}

func NewExportService(cfg docgen.Config) *exportService {
	srv := new(exportService)
	srv.BaseServiceImpl = NewBaseService(BaseServiceConfig[*model.ExportRecord]{
		NewModel:       srv.NewModel,
		BuildCondition: srv.BuildCondition,
	})
	srv.docGen = docgen.NewDocGenerator(cfg)
	return srv
}

func (s *exportService) NewModel() *model.ExportRecord {
	return &model.ExportRecord{}
}

func (s *exportService) BuildCondition(query *gorm.DB, condition *model.ExportRecord) *gorm.DB {
	if condition == nil {
		return query
	}
	if condition.DocumentType != "" {
		query = query.Where("document_type LIKE ?", "%"+condition.DocumentType+"%")
	}
	if condition.UnitName != "" {
		query = query.Where("unit_name LIKE ?", "%"+condition.UnitName+"%")
	}
	return query
}

// Preview 生成草稿的HTML预览
func (s *exportService) Preview(draft string) (string, error) {
	html, err := s.docGen.Preview(draft)
	if err != nil {
		logger.Error("生成预览失败", logger.F("error", err))
		return "", fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}
	return html, nil
}

// Export 生成DOCX并保存导出记录，记录保存失败不影响下载
func (s *exportService) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	if req == nil || strings.TrimSpace(req.Draft) == "" {
		return nil, constant.ErrEmptyDraft
	}

	doc, err := s.docGen.Build(req.Draft, req.Metadata)
	if err != nil {
		if errors.Is(err, docgen.ErrMissingMetadata) {
			return nil, constant.ErrMissingMetadata
		}
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := s.docGen.WriteDocument(&buf, doc); err != nil {
		logger.Error("生成DOCX失败", logger.F("error", err))
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}

	record := &model.ExportRecord{
		RequestID:    uuid.NewString(),
		DocumentType: req.Metadata.DocumentType,
		UnitName:     req.Metadata.UnitName,
		FileName:     docgen.FileName(req.Metadata.DocumentType),
		Size:         int64(buf.Len()),
		BlockCount:   len(doc.Body),
	}
	if err := s.Create(ctx, record); err != nil {
		logger.Warn("保存导出记录失败", logger.F("fileName", record.FileName), logger.F("error", err))
	}

	return &ExportResult{Record: record, Data: buf.Bytes()}, nil
}
