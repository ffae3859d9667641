package appapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/service"
)

var Handlers []Handler

type Handler interface {
	RegisterRoutes(router fiber.Router)
}

/*
文档起草接口：
1、上传参考资料并提取文档信息
2、生成大纲、按大纲生成正文草稿
3、草稿预览、导出DOCX及导出记录查询
*/

// fail 按错误类型返回对应的状态码
func fail(c *fiber.Ctx, err error) error {
	return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
}
