package constant

import (
	"errors"
	"net/http"
)

// 自定义错误
var (
	// 通用错误
	ErrInternalError    = errors.New("内部错误")
	ErrInvalidParams    = errors.New("参数错误")
	ErrUnauthorized     = errors.New("未授权")
	ErrDatabaseError    = errors.New("数据库错误")
	ErrRecordNotFound   = errors.New("记录不存在")
	ErrSerializeError   = errors.New("序列化错误")
	ErrRateLimited      = errors.New("请求过于频繁")
	ErrPayloadTooLarge  = errors.New("文件过大")
	ErrInvalidOperation = errors.New("无效的操作")

	// 文件相关错误
	ErrUnsupportedFile = errors.New("不支持的文件类型")
	ErrExtractFailed   = errors.New("文件内容提取失败")

	// 模型相关错误
	ErrModelUnavailable = errors.New("模型服务不可用")
	ErrModelResponse    = errors.New("模型返回内容无法解析")

	// 文档相关错误
	ErrMissingMetadata = errors.New("缺少文档信息")
	ErrEmptyDraft      = errors.New("草稿内容为空")
	ErrRenderFailed    = errors.New("文档生成失败")
)

var errorCodes = map[error]int{
	ErrInternalError:    http.StatusInternalServerError,
	ErrInvalidParams:    http.StatusBadRequest,
	ErrUnauthorized:     http.StatusUnauthorized,
	ErrDatabaseError:    http.StatusInternalServerError,
	ErrRecordNotFound:   http.StatusNotFound,
	ErrSerializeError:   http.StatusInternalServerError,
	ErrRateLimited:      http.StatusTooManyRequests,
	ErrPayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrInvalidOperation: http.StatusBadRequest,

	ErrUnsupportedFile: http.StatusUnsupportedMediaType,
	ErrExtractFailed:   http.StatusUnprocessableEntity,

	ErrModelUnavailable: http.StatusBadGateway,
	ErrModelResponse:    http.StatusBadGateway,

	ErrMissingMetadata: http.StatusBadRequest,
	ErrEmptyDraft:      http.StatusBadRequest,
	ErrRenderFailed:    http.StatusInternalServerError,
}

// 获取错误对应的HTTP状态码，支持被包装的错误
func GetErrorCode(err error) int {
	for target, code := range errorCodes {
		if errors.Is(err, target) {
			return code
		}
	}
	return http.StatusInternalServerError
}
