package service

import (
	"time"

	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/docgen"
)

// DocConfig 从配置读取文档生成参数
func DocConfig() docgen.Config {
	cfg := docgen.DefaultConfig()
	cfg.HeadingThreshold = config.GetInt("document.heading_threshold")
	if title := config.GetString("document.role_title"); title != "" {
		cfg.RoleTitle = title
	}
	if font := config.GetString("document.font_family"); font != "" {
		cfg.FontFamily = font
	}
	cfg.Page.FooterText = config.GetString("document.footer_text")
	cfg.Page.MarginTop = config.GetInt("document.margin_top")
	cfg.Page.MarginBottom = config.GetInt("document.margin_bottom")
	cfg.Page.MarginLeft = config.GetInt("document.margin_left")
	cfg.Page.MarginRight = config.GetInt("document.margin_right")
	return cfg
}

// LLMSettings 从配置读取大模型参数
func LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider: config.GetString("llm.provider"),
		Model:    config.GetString("llm.model"),
		Models:   config.GetStringSlice("llm.models"),
		APIKey:   config.GetString("llm.api_key"),
		BaseURL:  config.GetString("llm.base_url"),
		Timeout:  time.Duration(config.GetInt("llm.timeout")) * time.Second,
	}
}
