package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// MaxImageBytes 单张图片大小上限
const MaxImageBytes = 10 << 20

// DownloadImage 下载网络图片，返回字节和 MIME 类型
func DownloadImage(ctx context.Context, client *resty.Client, url string) ([]byte, string, error) {
	if client == nil {
		client = NewHTTPClient(0)
	}

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("下载失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("下载失败: HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, "", fmt.Errorf("下载失败: 空响应")
	}
	if len(data) > MaxImageBytes {
		return nil, "", fmt.Errorf("图片过大: %d bytes", len(data))
	}

	mime := ImageMimeType(resp.Header().Get("Content-Type"), data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", fmt.Errorf("不是图片: %s", mime)
	}
	return data, mime, nil
}

// ImageMimeType 优先使用声明的类型，缺失时按内容嗅探
func ImageMimeType(declared string, data []byte) string {
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(strings.ToLower(declared))
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "image/jpeg"
}

// DataURL 编码为 data:{mime};base64,...
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
