package service

import (
	"errors"
	"fmt"
)

// ==================== 错误定义 ====================

var (
	ErrInvalidInput          = errors.New("参数错误")
	ErrProviderNotConfigured = errors.New("模型 API Key 未配置")
	ErrGenerationFailed      = errors.New("生成失败")
	ErrUnsupportedFormat     = errors.New("不支持的导出格式")
	ErrStorageNotConfigured  = errors.New("存储服务未配置")
	ErrOutputNotFound        = errors.New("记录不存在")
)

// GenerationError 上游模型调用失败
// errors.Is(err, ErrGenerationFailed) 为真，同时保留原始错误链
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed.Error(), e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
