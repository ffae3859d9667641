package service

import (
	"context"
	"net/http"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/pkg/docgen"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DraftService 参考资料处理与草稿生成
type DraftService interface {
	Ingest(name string, data []byte, group ingest.Group) (*ingest.Reference, error)
	ExtractMetadata(ctx context.Context, current docgen.Metadata, refs []ingest.Reference) (docgen.Metadata, error)
	GenerateOutline(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference) ([]generator.OutlineItem, error)
	GenerateDraft(ctx context.Context, meta docgen.Metadata, refs []ingest.Reference, outline []generator.OutlineItem) (string, error)
	Models() []string
}

// ExportService 文档预览、导出与导出记录
type ExportService interface {
	Preview(draft string) (string, error)
	Export(ctx context.Context, req *ExportRequest) (*ExportResult, error)
	Get(ctx context.Context, id uint64) (*model.ExportRecord, error)
	List(ctx context.Context, condition *model.ExportRecord, offset, limit int) ([]*model.ExportRecord, int64, error)
}

// /////////////////////////////
// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Response {
	return NewResponse(data, nil)
}

func Error(err error) *Response {
	return NewResponse(nil, err)
}

// NewResponse 创建响应
func NewResponse(data interface{}, err error) *Response {
	if err == nil {
		return &Response{
			Code:    http.StatusOK,
			Message: "success",
			Data:    data,
		}
	}

	code := constant.GetErrorCode(err)
	return &Response{
		Code:    code,
		Message: err.Error(),
		Data:    data,
	}
}

// ListResponse 列表响应结构
type ListResponse struct {
	Total  int64       `json:"total"`
	Items  interface{} `json:"items"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// NewListResponse 创建列表响应
func NewListResponse(items interface{}, total int64, offset, limit int) *ListResponse {
	return &ListResponse{
		Total:  total,
		Items:  items,
		Offset: offset,
		Limit:  limit,
	}
}
