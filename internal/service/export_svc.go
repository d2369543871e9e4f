package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/render"
	"contenta_dev_v1/pkg/logger"
	"contenta_dev_v1/pkg/pdf"
)

// ==================== 导出格式 ====================

// ExportFormat 导出文件格式
type ExportFormat string

const (
	ExportTxt ExportFormat = "txt"
	ExportMd  ExportFormat = "md"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat 空串视为 txt
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportTxt, nil
	case ExportTxt, ExportMd, ExportPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (f ExportFormat) contentType() string {
	switch f {
	case ExportMd:
		return "text/markdown; charset=utf-8"
	case ExportPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ExportFile 导出结果
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PublishResult 上传后的访问地址
type PublishResult struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
}

// FileName {prefix}_{mode}_{ISO时间}.{ext}，时间中的 ':' 和 '.' 换成 '-'
func FileName(prefix string, mode model.OutputMode, t time.Time, ext string) string {
	if prefix == "" {
		prefix = "contenta"
	}
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("%s_%s_%s.%s", prefix, mode, stamp, ext)
}

// ==================== 服务 ====================

// ExportService 记录导出为 txt/md/pdf，可选上传到对象存储
type ExportService struct {
	storage   StorageProvider
	metrics   *Metrics
	logger    *zap.Logger
	prefix    string
	signedTTL time.Duration
	now       func() time.Time
}

// ExportOptions 导出配置
type ExportOptions struct {
	Prefix    string
	SignedTTL time.Duration // >0 时返回签名地址
}

// NewExportService storage 可为 nil，此时 Publish 返回 ErrStorageNotConfigured
func NewExportService(storage StorageProvider, metrics *Metrics, log *zap.Logger, opts ExportOptions) *ExportService {
	return &ExportService{
		storage:   storage,
		metrics:   metrics,
		logger:    logger.OrNop(log).Named("ExportService"),
		prefix:    opts.Prefix,
		signedTTL: opts.SignedTTL,
		now:       time.Now,
	}
}

// Export 生成导出文件
// txt/md 保持 UTF-8；pdf 只支持 ASCII，先做字符替换
func (s *ExportService) Export(rec *model.OutputRecord, format ExportFormat) (*ExportFile, error) {
	if rec == nil {
		return nil, ErrOutputNotFound
	}

	var data []byte
	switch format {
	case ExportTxt, "":
		format = ExportTxt
		data = []byte(render.Render(rec, render.FormatText))
	case ExportMd:
		data = []byte(render.Render(rec, render.FormatMarkdown))
	case ExportPDF:
		text := render.Sanitize(render.Render(rec, render.FormatText))
		data = pdf.Build(text)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	s.metrics.exported(string(format))
	return &ExportFile{
		Name:        FileName(s.prefix, rec.Mode, s.now(), string(format)),
		ContentType: format.contentType(),
		Data:        data,
	}, nil
}

// Publish 导出并上传，返回访问地址
func (s *ExportService) Publish(ctx context.Context, rec *model.OutputRecord, format ExportFormat) (*PublishResult, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	file, err := s.Export(rec, format)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, file.Data, file.Name, file.ContentType)
	if err != nil {
		s.logger.Error("upload export failed", zap.String("file", file.Name), zap.Error(err))
		return nil, fmt.Errorf("上传失败: %w", err)
	}
	if s.signedTTL > 0 {
		signed, err := s.storage.GetSignedURL(ctx, url, s.signedTTL)
		if err != nil {
			return nil, fmt.Errorf("签名失败: %w", err)
		}
		url = signed
	}

	s.logger.Info("export published", zap.String("id", rec.ID), zap.String("url", url))
	return &PublishResult{
		URL:      url,
		FileName: file.Name,
		Format:   string(format),
		Size:     len(file.Data),
	}, nil
}

// Preview 渲染为 HTML 片段
func (s *ExportService) Preview(rec *model.OutputRecord) (string, error) {
	if rec == nil {
		return "", ErrOutputNotFound
	}
	return render.PreviewHTML(rec)
}
