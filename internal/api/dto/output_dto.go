package dto

import "contenta_dev_v1/internal/model"

// ==================== 历史记录 ====================

// ListOutputsQuery GET /api/outputs 查询参数
type ListOutputsQuery struct {
	Mode     string `form:"mode"`
	Platform string `form:"platform"`
	Query    string `form:"q"`
	Favorite bool   `form:"favorite"`
}

// ListOutputsResponse 历史记录列表
type ListOutputsResponse struct {
	Total int                  `json:"total"`
	Items []model.OutputRecord `json:"items"`
}

// ExportQuery 导出格式参数
type ExportQuery struct {
	Format string `form:"format"`
}

// PreviewResponse HTML 预览
type PreviewResponse struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}
