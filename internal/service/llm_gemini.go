package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM 通过官方 SDK 调用 Gemini
type GeminiLLM struct {
	apiKey string
	model  string
}

// NewGeminiLLM 创建 Gemini 客户端
func NewGeminiLLM(apiKey, model string) *GeminiLLM {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiLLM{apiKey: apiKey, model: model}
}

func (g *GeminiLLM) Provider() string { return "gemini" }
func (g *GeminiLLM) Model() string    { return g.model }

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"

	parts := []genai.Part{genai.Text(prompt.Text)}
	if len(prompt.Image) > 0 {
		mime := prompt.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: prompt.Image})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: 无生成结果")
	}

	// 文本可能分散在多个 Part 中
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: 响应不含文本")
	}
	return sb.String(), nil
}
