package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"contenta_dev_v1/internal/model"
)

// ==================== 提示词 ====================

// BuildPrompt 按模式构造要求纯 JSON 输出的提示词
func BuildPrompt(mode model.OutputMode, text, style, platform string) string {
	switch mode {
	case model.ModeIdeas:
		return fmt.Sprintf(`You are an expert content strategist. Create JSON only (no markdown, no code fences, no commentary). Schema:
{
  "ideas": [ { "title": string, "hook": string, "platform": "%s" } ]
}
Rules: 8 ideas, concise, tone: %s. Remove hashtags and asterisks. Topic: %s`, platform, style, text)

	case model.ModeEnhance:
		return fmt.Sprintf(`Rewrite and improve the text with tone %s for %s. Respond as JSON only:
{
  "variants": [ string ]
}
Rules: provide 2-3 alternatives. No hashtags. No markdown.
Text: %s`, style, platform, text)

	default:
		return fmt.Sprintf(`Create JSON only for social captions and a short video script. Schema:
{
  "captions": string[],
  "script": {
    "title": string,
    "hook": string[],
    "body": string[],
    "cta": string[]
  }
}
Rules: 5 captions, each under 120 chars, tone %s, platform %s. Remove hashtags, asterisks, and markdown. Topic: %s`, style, platform, text)
	}
}

// BuildVisionPrompt 图片分析提示词
func BuildVisionPrompt(style, platform string) string {
	return fmt.Sprintf(`You are an assistant that suggests social captions and post ideas based on an image.
Respond with JSON only (no markdown, no code fences, no commentary) using this shape:
{
  "captions": string[],
  "ideas": string[]
}
Rules:
- 5 short captions (<120 chars), tone: %s, platform: %s
- 5 concise ideas (one sentence each). Remove hashtags and asterisks.`, style, platform)
}

// ==================== 响应解析 ====================

var (
	fenceOpen  = regexp.MustCompile("(?i)^```(?:json)?")
	fenceClose = regexp.MustCompile("```$")
)

// TryParseJSON 去掉代码块围栏后尝试解析
// 非 JSON 是正常情况，返回 nil
func TryParseJSON(raw string) json.RawMessage {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceOpen.ReplaceAllString(cleaned, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(cleaned)); err != nil {
		return nil
	}
	return json.RawMessage(buf.Bytes())
}
