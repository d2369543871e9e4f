package dto

import "contenta_dev_v1/internal/repository"

// SettingsResponse 用户设置及其生效的默认值
type SettingsResponse struct {
	Settings map[string]interface{} `json:"settings"`
	Style    string                 `json:"style"`
	Platform string                 `json:"platform"`
}

// UsageQuery GET /api/usage
type UsageQuery struct {
	Days int `form:"days"`
}

// UsageResponse AI 调用用量
type UsageResponse struct {
	Days  int                         `json:"days"`
	Total *repository.AIUsageStats    `json:"total"`
	Modes []repository.ModeUsageStats `json:"modes"`
}
