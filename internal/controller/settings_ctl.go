package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contenta_dev_v1/internal/api/dto"
	"contenta_dev_v1/internal/middleware"
	"contenta_dev_v1/internal/service"
)

// SettingsController 用户设置
type SettingsController struct {
	settings *service.SettingsService
}

func NewSettingsController(settings *service.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetSettings 读取设置
// @Summary 读取用户设置
// @Tags Settings
// @Success 200 {object} dto.SettingsResponse
// @Router /api/settings [get]
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	ctrl.respond(c, middleware.GetUserID(c))
}

// SaveSettings 覆盖写入设置
// @Summary 保存用户设置（整体覆盖）
// @Tags Settings
// @Accept json
// @Param body body object true "任意 JSON 对象"
// @Success 200 {object} dto.SettingsResponse
// @Router /api/settings [put]
func (ctrl *SettingsController) SaveSettings(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: 需要 JSON 对象")
		return
	}

	userID := middleware.GetUserID(c)
	ctrl.settings.SaveSettings(c.Request.Context(), userID, body)
	ctrl.respond(c, userID)
}

func (ctrl *SettingsController) respond(c *gin.Context, userID string) {
	ctx := c.Request.Context()
	style, platform := ctrl.settings.Preferences(ctx, userID)
	respondOK(c, dto.SettingsResponse{
		Settings: ctrl.settings.LoadSettings(ctx, userID),
		Style:    style,
		Platform: platform,
	})
}
