package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/pkg/logger"
)

// 生成表单的默认值
const (
	DefaultStyle    = "casual"
	DefaultPlatform = "instagram"
)

// SettingsService 用户设置（自由格式的 JSON 对象）
type SettingsService struct {
	kv     repository.KVRepository
	logger *zap.Logger
}

// NewSettingsService 创建设置服务
func NewSettingsService(kv repository.KVRepository, log *zap.Logger) *SettingsService {
	return &SettingsService{
		kv:     kv,
		logger: logger.OrNop(log).Named("SettingsService"),
	}
}

// LoadSettings 不存在或数据损坏时返回空对象
func (s *SettingsService) LoadSettings(ctx context.Context, userID string) map[string]interface{} {
	settings := map[string]interface{}{}
	if s.kv == nil {
		return settings
	}

	key := model.SettingsKey(userID)
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("load settings failed", zap.String("key", key), zap.Error(err))
		return settings
	}
	if !found {
		return settings
	}

	var v map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		s.logger.Warn("corrupt settings blob, treating as empty", zap.String("key", key))
		return settings
	}
	return v
}

// SaveSettings 整体覆盖写入
func (s *SettingsService) SaveSettings(ctx context.Context, userID string, settings map[string]interface{}) {
	if s.kv == nil {
		return
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}

	key := model.SettingsKey(userID)
	data, err := json.Marshal(settings)
	if err != nil {
		s.logger.Warn("encode settings failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn("persist settings failed", zap.String("key", key), zap.Error(err))
	}
}

// Preferences 读取 style/platform，缺省时回落到表单默认值
func (s *SettingsService) Preferences(ctx context.Context, userID string) (style, platform string) {
	settings := s.LoadSettings(ctx, userID)
	style, platform = DefaultStyle, DefaultPlatform
	if v, ok := settings["style"].(string); ok && v != "" {
		style = v
	}
	if v, ok := settings["platform"].(string); ok && v != "" {
		platform = v
	}
	return style, platform
}
