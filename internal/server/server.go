package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	middlewareLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appapi "github.com/yockii/docdraft/internal/api_app"
	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/internal/middleware"
	"github.com/yockii/docdraft/internal/service"
	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/logger"
)

const apiPrefix = "/api/v1"

type Server struct {
	app    *fiber.App
	ctx    context.Context
	cancel context.CancelFunc

	// 各个service
	draftSrv  service.DraftService
	exportSrv service.ExportService
}

func New() *Server {
	return &Server{}
}

// Setup 创建Fiber实例并注册中间件和路由
func (s *Server) Setup() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		DisableStartupMessage: true,
		BodyLimit:             int(config.GetInt64("upload.max_size")) * 4,
	})

	s.setupServices()

	// 配置中间件
	s.setupMiddleware()

	// 配置路由
	s.setupRoutesV1()
}

func (s *Server) Start() error {
	s.Setup()

	addr := config.GetServerAddress()
	logger.Info("服务监听地址", logger.F("address", addr))

	// 优雅关闭
	go s.gracefulShutdown()

	if err := s.app.Listen(addr); err != nil {
		logger.Error("服务停止", logger.F("error", err))
		return err
	}
	return nil
}

// App 返回Fiber实例
func (s *Server) App() *fiber.App {
	return s.app
}

// Close 停止后台任务
func (s *Server) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务关闭中...")

	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logger.Error("服务关闭失败", logger.F("error", err))
	}

	logger.Info("服务已关闭")
}

// setupServices 配置服务层
func (s *Server) setupServices() {
	// 大模型不可用时仍可预览和导出
	settings := service.LLMSettings()
	llm, err := generator.NewLLMClient(settings)
	if err != nil {
		logger.Warn("大模型客户端初始化失败", logger.F("error", err))
	}

	extractor := ingest.NewExtractor(config.GetInt64("upload.max_size"))
	s.draftSrv = service.NewDraftService(extractor, generator.NewGenerator(llm, settings.Models...))
	s.exportSrv = service.NewExportService(service.DocConfig())
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	// 异常恢复
	s.app.Use(recover.New())

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))

	// 访问日志
	s.app.Use(middlewareLogger.New(middlewareLogger.Config{
		Format:     "[${ip}]-${time} ${status} ${latency} ${method} ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

// setupRoutesV1 配置接口路由
func (s *Server) setupRoutesV1() {
	appapi.Handlers = nil
	appapi.RegisterDraftHandler(s.draftSrv)
	appapi.RegisterExportHandler(s.exportSrv)

	// 健康检查
	s.app.Get(apiPrefix+"/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	// 先校验密钥再限流，限流只信任校验通过的密钥
	handlers := []fiber.Handler{
		middleware.NewAPIKeyMiddleware(config.GetStringSlice("security.api_keys"), []string{apiPrefix + "/health"}),
	}
	if config.GetBool("rate_limit.enabled") {
		handlers = append(handlers, middleware.RateLimit(
			s.ctx,
			config.GetInt("rate_limit.max_requests"),
			time.Duration(config.GetInt("rate_limit.duration"))*time.Second,
		))
	}
	apiGroup := s.app.Group(apiPrefix, handlers...)
	for _, handler := range appapi.Handlers {
		handler.RegisterRoutes(apiGroup)
	}
}
