package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ==================== 模型抽象 ====================

// LLM 底层模型调用，便于替换/Mock
type LLM interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt 单轮请求，Image 非空时为多模态
type Prompt struct {
	Text     string
	Image    []byte
	MimeType string
}

// AIConfig 模型配置
type AIConfig struct {
	Provider string // gemini / openai
	APIKey   string
	Model    string
	BaseURL  string        // 仅 openai 兼容接口
	Timeout  time.Duration // 单次调用超时
}

// NewLLM 按配置创建模型客户端
// 没有 API Key 时返回 ErrProviderNotConfigured
func NewLLM(cfg *AIConfig) (LLM, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, ErrProviderNotConfigured
	}
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiLLM(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAILLM(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("不支持的模型提供方: %s", cfg.Provider)
	}
}

// ==================== Mock ====================

// MockLLM 测试用，按顺序返回预设响应
type MockLLM struct {
	Responses []string
	Err       error

	mu      sync.Mutex
	Prompts []Prompt
}

func (m *MockLLM) Provider() string { return "mock" }
func (m *MockLLM) Model() string    { return "mock-model" }

func (m *MockLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock: no response queued")
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}
