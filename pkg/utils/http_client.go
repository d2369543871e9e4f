package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewHTTPClient 创建配置好超时和重试的 Resty 客户端
// 用于拉取外部图片等出站请求
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(300*time.Millisecond).
		SetHeader("User-Agent", "Contenta/1.0")
}
