package model

import "gorm.io/datatypes"

// AICallLog AI调用日志
type AICallLog struct {
	BaseModel

	// 关联
	UserID string `gorm:"size:128;index;comment:用户ID"`

	// 调用信息
	Mode      string `gorm:"size:32;index;comment:生成模式(generate/ideas/enhance/vision)"`
	CallType  string `gorm:"size:32;index;comment:调用类型(text/vision)"`
	Provider  string `gorm:"size:32;comment:模型提供方(gemini/openai)"`
	ModelName string `gorm:"size:64;comment:模型名称"`

	// 用量
	PromptChars   int  `gorm:"default:0;comment:提示词字符数"`
	ResponseChars int  `gorm:"default:0;comment:响应字符数"`
	Parsed        bool `gorm:"default:false;comment:响应是否为合法JSON"`

	// 性能
	DurationMs int64 `gorm:"comment:耗时(毫秒)"`

	// 状态
	Status   string         `gorm:"size:32;index;default:success;comment:状态(success/failed)"`
	ErrorMsg string         `gorm:"size:1024;comment:错误信息"`
	Meta     datatypes.JSON `gorm:"comment:附加信息(style/platform等)"`
}

func (AICallLog) TableName() string {
	return "ai_call_logs"
}

// ==================== 调用类型常量 ====================

const (
	AICallTypeText   = "text"
	AICallTypeVision = "vision"
)

// ==================== 状态常量 ====================

const (
	AICallStatusSuccess = "success"
	AICallStatusFailed  = "failed"
)
