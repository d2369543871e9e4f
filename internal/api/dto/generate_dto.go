package dto

import (
	"encoding/json"

	"contenta_dev_v1/internal/model"
)

// GenerateRequest POST /api/generate
type GenerateRequest struct {
	Mode     string `json:"mode"`
	Text     string `json:"text" binding:"required"`
	Style    string `json:"style"`
	Platform string `json:"platform"`
}

// VisionForm POST /api/vision 的表单字段，图片通过 image 文件或 image_url 提供
type VisionForm struct {
	ImageURL string `form:"image_url"`
	Style    string `form:"style"`
	Platform string `form:"platform"`
}

// OutputContent 模型原始输出
type OutputContent struct {
	Content string `json:"content"`
}

// GenerateResponse 生成结果，Record 为空表示未能写入历史
type GenerateResponse struct {
	Mode       model.OutputMode    `json:"mode"`
	Outputs    []OutputContent     `json:"outputs"`
	Structured json.RawMessage     `json:"structured"`
	Rendered   string              `json:"rendered"`
	Record     *model.OutputRecord `json:"record"`
}
