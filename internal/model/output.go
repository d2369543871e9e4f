package model

import (
	"encoding/json"
	"fmt"
)

// ==================== 生成模式 ====================

// OutputMode 生成流程类型
type OutputMode string

const (
	ModeGenerate OutputMode = "generate"
	ModeIdeas    OutputMode = "ideas"
	ModeEnhance  OutputMode = "enhance"
	ModeVision   OutputMode = "vision"
)

// Valid 是否为已知模式
func (m OutputMode) Valid() bool {
	switch m {
	case ModeGenerate, ModeIdeas, ModeEnhance, ModeVision:
		return true
	}
	return false
}

// ParseOutputMode 解析模式字符串，空串视为 generate
func ParseOutputMode(s string) (OutputMode, error) {
	if s == "" {
		return ModeGenerate, nil
	}
	m := OutputMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// ==================== 历史记录 ====================

// LocalUserID 未登录时共享的用户标识
const LocalUserID = "local"

// OutputCapacity 单个用户最多保留的记录数
const OutputCapacity = 200

// OutputRecord 一次生成结果
// 创建后只有 Favorite 可变
type OutputRecord struct {
	ID         string          `json:"id"`
	CreatedAt  int64           `json:"createdAt"` // epoch ms
	Mode       OutputMode      `json:"mode"`
	Text       string          `json:"text"`
	Style      string          `json:"style"`
	Platform   string          `json:"platform"`
	Structured json.RawMessage `json:"structured,omitempty"`
	Raw        string          `json:"raw,omitempty"`
	Favorite   bool            `json:"favorite"`

	// 仅 vision 模式
	ImageDataURL string `json:"imageDataUrl,omitempty"`
	ImageName    string `json:"imageName,omitempty"`
}

// HasStructured 是否携带可解析的结构化结果
func (r *OutputRecord) HasStructured() bool {
	return len(r.Structured) > 0 && string(r.Structured) != "null"
}

// OutputDraft 保存前的记录，ID 和时间由存储层分配
type OutputDraft struct {
	Mode         OutputMode
	Text         string
	Style        string
	Platform     string
	Structured   json.RawMessage
	Raw          string
	ImageDataURL string
	ImageName    string
}

// OutputFilter 历史记录筛选条件，零值表示不过滤
type OutputFilter struct {
	Mode          OutputMode
	Platform      string
	Query         string
	FavoritesOnly bool
}

// ResolveUserID 空用户回落到 LocalUserID
func ResolveUserID(userID string) string {
	if userID == "" {
		return LocalUserID
	}
	return userID
}

// OutputsKey 历史记录的 KV 键
func OutputsKey(userID string) string {
	return "outputs:" + ResolveUserID(userID)
}

// SettingsKey 设置的 KV 键
func SettingsKey(userID string) string {
	return "settings:" + ResolveUserID(userID)
}
