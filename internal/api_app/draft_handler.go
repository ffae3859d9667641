package appapi

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/internal/service"
	"github.com/yockii/docdraft/pkg/docgen"
	"github.com/yockii/docdraft/pkg/logger"
)

// 上传字段与参考资料分组的对应关系
var uploadGroups = []struct {
	field string
	group ingest.Group
}{
	{"legal", ingest.GroupLegal},
	{"requirements", ingest.GroupRequirement},
	{"templates", ingest.GroupTemplate},
}

type DraftHandler struct {
	draftService service.DraftService
}

type metadataResponse struct {
	Metadata   docgen.Metadata    `json:"metadata"`
	References []ingest.Reference `json:"references"`
}

type outlineRequest struct {
	Model      string             `json:"model"`
	Metadata   docgen.Metadata    `json:"metadata"`
	References []ingest.Reference `json:"references"`
}

type draftRequest struct {
	Model      string                  `json:"model"`
	Metadata   docgen.Metadata         `json:"metadata"`
	References []ingest.Reference      `json:"references"`
	Outline    []generator.OutlineItem `json:"outline"`
}

func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

func RegisterDraftHandler(draftService service.DraftService) {
	Handlers = append(Handlers, NewDraftHandler(draftService))
}

func (h *DraftHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/metadata", h.ExtractMetadata)
	router.Post("/outline", h.GenerateOutline)
	router.Post("/draft", h.GenerateDraft)
	router.Get("/models", h.ListModels)
}

// ListModels 可按请求指定的模型
func (h *DraftHandler) ListModels(c *fiber.Ctx) error {
	return c.JSON(service.OK(fiber.Map{"models": h.draftService.Models()}))
}

// ExtractMetadata 上传参考资料，返回提取的文本和建议的文档信息
func (h *DraftHandler) ExtractMetadata(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	var current docgen.Metadata
	if values := form.Value["metadata"]; len(values) > 0 && values[0] != "" {
		if err := json.Unmarshal([]byte(values[0]), &current); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
		}
	}

	var refs []ingest.Reference
	for _, g := range uploadGroups {
		for _, file := range form.File[g.field] {
			ref, err := h.ingest(file, g.group)
			if err != nil {
				logger.Warn("处理参考资料失败", logger.F("name", file.Filename), logger.F("error", err))
				return fail(c, err)
			}
			refs = append(refs, *ref)
		}
	}
	if len(refs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}

	ctx := generator.WithModel(c.UserContext(), c.FormValue("model"))
	meta, err := h.draftService.ExtractMetadata(ctx, current, refs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(metadataResponse{Metadata: meta, References: refs}))
}

func (h *DraftHandler) ingest(file *multipart.FileHeader, group ingest.Group) (*ingest.Reference, error) {
	f, err := file.Open()
	if err != nil {
		return nil, constant.ErrInvalidParams
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, constant.ErrInvalidParams
	}
	return h.draftService.Ingest(file.Filename, data, group)
}

// GenerateOutline 生成大纲
func (h *DraftHandler) GenerateOutline(c *fiber.Ctx) error {
	req := new(outlineRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	ctx := generator.WithModel(c.UserContext(), req.Model)
	items, err := h.draftService.GenerateOutline(ctx, req.Metadata, req.References)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(items))
}

// GenerateDraft 按大纲生成正文草稿
func (h *DraftHandler) GenerateDraft(c *fiber.Ctx) error {
	req := new(draftRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	ctx := generator.WithModel(c.UserContext(), req.Model)
	draft, err := h.draftService.GenerateDraft(ctx, req.Metadata, req.References, req.Outline)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(fiber.Map{"draft": draft}))
}
