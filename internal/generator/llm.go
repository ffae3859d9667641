package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Task 提示词对应的任务
type Task string

const (
	TaskMetadata Task = "metadata"
	TaskOutline  Task = "outline"
	TaskDraft    Task = "draft"
)

// Prompt 一次模型调用的提示词，Model 为空时使用客户端默认模型
type Prompt struct {
	Task   Task
	Model  string
	System string
	User   string
}

type modelKey struct{}

// WithModel 为本次请求指定模型，空字符串表示默认模型
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, modelKey{}, strings.TrimSpace(model))
}

func modelFromContext(ctx context.Context) string {
	model, _ := ctx.Value(modelKey{}).(string)
	return model
}

// LLMClient 抽象大模型客户端，便于替换/Mock
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置
type LLMSettings struct {
	Provider string
	Model    string
	Models   []string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewLLMClient 按 provider 创建客户端，mock 用于离线调试
func NewLLMClient(cfg *LLMSettings) (LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is nil")
	}
	switch strings.ToLower(cfg.Provider) {
	case "mock":
		return MockLLM{}, nil
	case "", "openai", "gemini":
		client, err := NewOpenAILLMFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
