package appapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/internal/service"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type ExportHandler struct {
	exportService service.ExportService
}

type previewRequest struct {
	Draft string `json:"draft"`
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func RegisterExportHandler(exportService service.ExportService) {
	Handlers = append(Handlers, NewExportHandler(exportService))
}

func (h *ExportHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/preview", h.Preview)
	router.Post("/export", h.Export)
	router.Get("/exports", h.List)
	router.Get("/exports/:id", h.Get)
}

// Preview 草稿HTML预览
func (h *ExportHandler) Preview(c *fiber.Ctx) error {
	req := new(previewRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	html, err := h.exportService.Preview(req.Draft)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(fiber.Map{"html": html}))
}

// Export 导出DOCX附件
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	req := new(service.ExportRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	result, err := h.exportService.Export(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}

	c.Attachment(result.Record.FileName)
	c.Set(fiber.HeaderContentType, docxContentType)
	c.Set("X-Request-ID", result.Record.RequestID)
	return c.Send(result.Data)
}

func (h *ExportHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record, err := h.exportService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

// List 导出记录分页查询
func (h *ExportHandler) List(c *fiber.Ctx) error {
	condition := &model.ExportRecord{
		DocumentType: c.Query("documentType"),
		UnitName:     c.Query("unitName"),
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", service.DefaultPageSize)
	if limit <= 0 || limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}

	list, total, err := h.exportService.List(c.UserContext(), condition, offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}
