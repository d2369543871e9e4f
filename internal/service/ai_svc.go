package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/pkg/logger"
)

// ==================== 接口 ====================

// GenerationClient 远程文本/图片生成
// 请求-响应式，失败原样返回给调用方，不重试
type GenerationClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	AnalyzeImage(ctx context.Context, req VisionRequest) (*VisionResponse, error)
}

// GenerateRequest 文本生成请求
type GenerateRequest struct {
	UserID   string
	Mode     model.OutputMode
	Text     string
	Style    string
	Platform string
}

// GenerateOutput 原始输出
type GenerateOutput struct {
	Content string `json:"content"`
}

// GenerateResponse Structured 为空表示模型没有返回合法 JSON
type GenerateResponse struct {
	Outputs    []GenerateOutput `json:"outputs"`
	Structured json.RawMessage  `json:"structured"`
}

// Raw 第一条原始输出
func (r *GenerateResponse) Raw() string {
	if r == nil || len(r.Outputs) == 0 {
		return ""
	}
	return r.Outputs[0].Content
}

// VisionRequest 图片分析请求
type VisionRequest struct {
	UserID   string
	Image    []byte
	MimeType string
	Style    string
	Platform string
}

// VisionResponse 图片分析结果
type VisionResponse struct {
	Raw        string          `json:"raw"`
	Structured json.RawMessage `json:"structured"`
}

// ==================== 服务 ====================

// AIService GenerationClient 的实现，负责提示词、解析、调用日志
type AIService struct {
	llm         LLM
	callLogRepo repository.AICallLogRepository
	metrics     *Metrics
	logger      *zap.Logger
	timeout     time.Duration
}

var _ GenerationClient = (*AIService)(nil)

// NewAIService 创建 AI 服务
// llm 为 nil 时所有调用返回 ErrProviderNotConfigured；callLogRepo 可为 nil
func NewAIService(llm LLM, callLogRepo repository.AICallLogRepository, metrics *Metrics, log *zap.Logger, timeout time.Duration) *AIService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		llm:         llm,
		callLogRepo: callLogRepo,
		metrics:     metrics,
		logger:      logger.OrNop(log).Named("AIService"),
		timeout:     timeout,
	}
}

// Generate 文本生成（generate / ideas / enhance）
func (s *AIService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalidInput("text 不能为空")
	}
	mode := req.Mode
	if mode == "" {
		mode = model.ModeGenerate
	}
	if !mode.Valid() || mode == model.ModeVision {
		return nil, invalidInput("不支持的文本生成模式: %s", mode)
	}
	if s.llm == nil {
		return nil, ErrProviderNotConfigured
	}
	style, platform := withDefaults(req.Style, req.Platform)

	prompt := Prompt{Text: BuildPrompt(mode, text, style, platform)}
	raw, structured, err := s.complete(ctx, callInfo{
		userID: req.UserID, mode: mode, callType: model.AICallTypeText,
		style: style, platform: platform,
	}, prompt)
	if err != nil {
		return nil, err
	}

	return &GenerateResponse{
		Outputs:    []GenerateOutput{{Content: raw}},
		Structured: structured,
	}, nil
}

// AnalyzeImage 图片生成文案
func (s *AIService) AnalyzeImage(ctx context.Context, req VisionRequest) (*VisionResponse, error) {
	if len(req.Image) == 0 {
		return nil, invalidInput("缺少图片")
	}
	if s.llm == nil {
		return nil, ErrProviderNotConfigured
	}
	style, platform := withDefaults(req.Style, req.Platform)
	mime := req.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}

	prompt := Prompt{Text: BuildVisionPrompt(style, platform), Image: req.Image, MimeType: mime}
	raw, structured, err := s.complete(ctx, callInfo{
		userID: req.UserID, mode: model.ModeVision, callType: model.AICallTypeVision,
		style: style, platform: platform,
	}, prompt)
	if err != nil {
		return nil, err
	}

	return &VisionResponse{Raw: raw, Structured: structured}, nil
}

// ==================== 内部方法 ====================

type callInfo struct {
	userID   string
	mode     model.OutputMode
	callType string
	style    string
	platform string
}

// complete 调用模型并记录日志和指标
func (s *AIService) complete(ctx context.Context, info callInfo, prompt Prompt) (string, json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Complete(callCtx, prompt)
	elapsed := time.Since(start)

	var structured json.RawMessage
	if err == nil {
		structured = TryParseJSON(raw)
	}

	status := model.AICallStatusSuccess
	if err != nil {
		status = model.AICallStatusFailed
	}
	s.metrics.observeGeneration(string(info.mode), status, elapsed.Seconds())
	s.recordCall(ctx, info, prompt, raw, structured != nil, elapsed, err)

	if err != nil {
		s.logger.Warn("generation failed",
			zap.String("user_id", model.ResolveUserID(info.userID)),
			zap.String("mode", string(info.mode)),
			zap.String("provider", s.llm.Provider()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", nil, &GenerationError{Provider: s.llm.Provider(), Err: err}
	}

	if structured == nil {
		s.logger.Info("response is not JSON, falling back to raw",
			zap.String("mode", string(info.mode)), zap.Int("chars", len(raw)))
	}
	return raw, structured, nil
}

// recordCall 写调用日志，失败只记录不影响主流程
func (s *AIService) recordCall(ctx context.Context, info callInfo, prompt Prompt, raw string, parsed bool, elapsed time.Duration, callErr error) {
	if s.callLogRepo == nil {
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"style":       info.style,
		"platform":    info.platform,
		"image_bytes": len(prompt.Image),
	})
	log := &model.AICallLog{
		UserID:        model.ResolveUserID(info.userID),
		Mode:          string(info.mode),
		CallType:      info.callType,
		Provider:      s.llm.Provider(),
		ModelName:     s.llm.Model(),
		PromptChars:   len(prompt.Text),
		ResponseChars: len(raw),
		Parsed:        parsed,
		DurationMs:    elapsed.Milliseconds(),
		Status:        model.AICallStatusSuccess,
		Meta:          datatypes.JSON(meta),
	}
	if callErr != nil {
		log.Status = model.AICallStatusFailed
		log.ErrorMsg = truncate(callErr.Error(), 1024)
	}

	// 请求可能已取消，日志仍需写入
	if err := s.callLogRepo.Create(context.WithoutCancel(ctx), log); err != nil {
		s.logger.Warn("record ai call log failed", zap.Error(err))
	}
}

func withDefaults(style, platform string) (string, string) {
	if strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	if strings.TrimSpace(platform) == "" {
		platform = DefaultPlatform
	}
	return style, platform
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
