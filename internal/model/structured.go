package model

import (
	"bytes"
	"encoding/json"
)

// ==================== 结构化结果 ====================

// Structured 按模式区分的结构化生成结果
// 实现: *GenerateResult / *IdeasResult / *EnhanceResult / *VisionResult / *OpaqueResult
type Structured interface {
	structuredMode() OutputMode
}

// StringList 兼容模型把单条列表返回成字符串的情况
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = StringList{}
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// VideoScript 短视频脚本
type VideoScript struct {
	Title string     `json:"title"`
	Hook  StringList `json:"hook"`
	Body  StringList `json:"body"`
	CTA   StringList `json:"cta"`
}

// GenerateResult generate 模式: 文案 + 脚本
type GenerateResult struct {
	Captions []string     `json:"captions"`
	Script   *VideoScript `json:"script"`
}

// Idea 单条选题
type Idea struct {
	Title    string `json:"title"`
	Hook     string `json:"hook"`
	Platform string `json:"platform,omitempty"`
}

// IdeasResult ideas 模式
type IdeasResult struct {
	Ideas []Idea `json:"ideas"`
}

// EnhanceResult enhance 模式: 改写版本
type EnhanceResult struct {
	Variants []string `json:"variants"`
}

// VisionResult vision 模式: 图片文案 + 选题
type VisionResult struct {
	Captions []string `json:"captions"`
	Ideas    []string `json:"ideas"`
}

// OpaqueResult 无法匹配任何已知结构的 JSON
type OpaqueResult struct {
	JSON json.RawMessage
}

func (*GenerateResult) structuredMode() OutputMode { return ModeGenerate }
func (*IdeasResult) structuredMode() OutputMode    { return ModeIdeas }
func (*EnhanceResult) structuredMode() OutputMode  { return ModeEnhance }
func (*VisionResult) structuredMode() OutputMode   { return ModeVision }
func (*OpaqueResult) structuredMode() OutputMode   { return "" }

// DecodeStructured 按模式解析结构化结果
// 空或 null 返回 nil；类型不符或缺少该模式的字段时返回 *OpaqueResult
func DecodeStructured(mode OutputMode, raw json.RawMessage) Structured {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch mode {
	case ModeGenerate:
		var v GenerateResult
		if json.Unmarshal(data, &v) == nil && (v.Captions != nil || v.Script != nil) {
			return &v
		}
	case ModeIdeas:
		var v IdeasResult
		if json.Unmarshal(data, &v) == nil && v.Ideas != nil {
			return &v
		}
	case ModeEnhance:
		var v EnhanceResult
		if json.Unmarshal(data, &v) == nil && v.Variants != nil {
			return &v
		}
	case ModeVision:
		var v VisionResult
		if json.Unmarshal(data, &v) == nil && (v.Captions != nil || v.Ideas != nil) {
			return &v
		}
	}

	return &OpaqueResult{JSON: data}
}
