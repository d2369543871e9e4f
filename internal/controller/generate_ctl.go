package controller

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"contenta_dev_v1/internal/api/dto"
	"contenta_dev_v1/internal/middleware"
	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/render"
	"contenta_dev_v1/internal/service"
	"contenta_dev_v1/pkg/logger"
	"contenta_dev_v1/pkg/utils"
)

// ==================== 控制器 ====================

// GenerateController 文本与图片生成
// 生成成功后写入历史记录；写入失败不影响本次响应
type GenerateController struct {
	ai         service.GenerationClient
	outputs    *service.OutputService
	settings   *service.SettingsService
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewGenerateController(
	ai service.GenerationClient,
	outputs *service.OutputService,
	settings *service.SettingsService,
	httpClient *resty.Client,
	log *zap.Logger,
) *GenerateController {
	if httpClient == nil {
		httpClient = utils.NewHTTPClient(0)
	}
	return &GenerateController{
		ai:         ai,
		outputs:    outputs,
		settings:   settings,
		httpClient: httpClient,
		logger:     logger.OrNop(log).Named("GenerateController"),
	}
}

// Generate 文本生成
// @Summary 生成文案 / 选题 / 改写
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/generate [post]
func (ctrl *GenerateController) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	mode, err := model.ParseOutputMode(req.Mode)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	style, platform := ctrl.preferences(ctx, userID, req.Style, req.Platform)

	resp, err := ctrl.ai.Generate(ctx, service.GenerateRequest{
		UserID:   userID,
		Mode:     mode,
		Text:     req.Text,
		Style:    style,
		Platform: platform,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	raw := resp.Raw()
	rec := ctrl.outputs.SaveOutput(ctx, userID, model.OutputDraft{
		Mode:       mode,
		Text:       strings.TrimSpace(req.Text),
		Style:      style,
		Platform:   platform,
		Structured: resp.Structured,
		Raw:        raw,
	})
	if rec == nil {
		ctrl.logger.Warn("output not saved", zap.String("user_id", userID), zap.String("mode", string(mode)))
	}

	outputs := make([]dto.OutputContent, 0, len(resp.Outputs))
	for _, o := range resp.Outputs {
		outputs = append(outputs, dto.OutputContent{Content: o.Content})
	}
	respondOK(c, dto.GenerateResponse{
		Mode:       mode,
		Outputs:    outputs,
		Structured: resp.Structured,
		Rendered:   render.RenderResult(mode, resp.Structured, raw, render.FormatText),
		Record:     rec,
	})
}

// Vision 图片生成文案
// @Summary 根据图片生成文案和选题
// @Tags Generate
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "图片文件"
// @Param image_url formData string false "图片地址（未上传文件时使用）"
// @Param style formData string false "语气"
// @Param platform formData string false "平台"
// @Success 200 {object} dto.GenerateResponse
// @Router /api/vision [post]
func (ctrl *GenerateController) Vision(c *gin.Context) {
	var form dto.VisionForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	data, mime, name, err := ctrl.readImage(c, form.ImageURL)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	style, platform := ctrl.preferences(ctx, userID, form.Style, form.Platform)

	resp, err := ctrl.ai.AnalyzeImage(ctx, service.VisionRequest{
		UserID:   userID,
		Image:    data,
		MimeType: mime,
		Style:    style,
		Platform: platform,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rec := ctrl.outputs.SaveOutput(ctx, userID, model.OutputDraft{
		Mode:         model.ModeVision,
		Text:         "Image: " + name,
		Style:        style,
		Platform:     platform,
		Structured:   resp.Structured,
		Raw:          resp.Raw,
		ImageDataURL: utils.DataURL(mime, data),
		ImageName:    name,
	})
	if rec == nil {
		ctrl.logger.Warn("vision output not saved", zap.String("user_id", userID))
	}

	respondOK(c, dto.GenerateResponse{
		Mode:       model.ModeVision,
		Outputs:    []dto.OutputContent{{Content: resp.Raw}},
		Structured: resp.Structured,
		Rendered:   render.RenderResult(model.ModeVision, resp.Structured, resp.Raw, render.FormatText),
		Record:     rec,
	})
}

// ==================== 辅助 ====================

// preferences 请求未指定时使用用户设置
func (ctrl *GenerateController) preferences(ctx context.Context, userID, style, platform string) (string, string) {
	if style != "" && platform != "" {
		return style, platform
	}
	defStyle, defPlatform := ctrl.settings.Preferences(ctx, userID)
	if style == "" {
		style = defStyle
	}
	if platform == "" {
		platform = defPlatform
	}
	return style, platform
}

// readImage 优先读取上传文件，否则下载 image_url
func (ctrl *GenerateController) readImage(c *gin.Context, imageURL string) ([]byte, string, string, error) {
	fh, err := c.FormFile("file")
	if err == nil {
		if fh.Size > utils.MaxImageBytes {
			return nil, "", "", errImage("图片过大")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", "", errImage("读取图片失败")
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, utils.MaxImageBytes+1))
		if err != nil || len(data) == 0 {
			return nil, "", "", errImage("读取图片失败")
		}
		if len(data) > utils.MaxImageBytes {
			return nil, "", "", errImage("图片过大")
		}
		mime := utils.ImageMimeType(fh.Header.Get("Content-Type"), data)
		if !strings.HasPrefix(mime, "image/") {
			return nil, "", "", errImage("不是图片文件")
		}
		return data, mime, fh.Filename, nil
	}

	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, "", "", errImage("缺少图片：请上传 file 或提供 image_url")
	}
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", "", errImage("image_url 无效")
	}

	data, mime, err := utils.DownloadImage(c.Request.Context(), ctrl.httpClient, imageURL)
	if err != nil {
		return nil, "", "", errImage(err.Error())
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = u.Host
	}
	return data, mime, name, nil
}

type imageError string

func (e imageError) Error() string { return string(e) }

func errImage(msg string) error { return imageError(msg) }
