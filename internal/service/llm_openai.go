package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
)

// OpenAILLM 调用 OpenAI 兼容的 chat completions 接口
type OpenAILLM struct {
	model string
	opts  []oaioption.RequestOption
}

// NewOpenAILLM baseURL 为空时使用官方地址
func NewOpenAILLM(apiKey, model, baseURL string) *OpenAILLM {
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []oaioption.RequestOption{oaioption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, oaioption.WithBaseURL(baseURL))
	}
	return &OpenAILLM{model: model, opts: opts}
}

func (o *OpenAILLM) Provider() string { return "openai" }
func (o *OpenAILLM) Model() string    { return o.model }

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.opts...)

	var msg openai.ChatCompletionMessageParamUnion
	if len(prompt.Image) > 0 {
		mime := prompt.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(prompt.Image))
		msg = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(prompt.Text),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		})
	} else {
		msg = openai.UserMessage(prompt.Text)
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{msg},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
