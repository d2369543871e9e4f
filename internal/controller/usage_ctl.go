package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contenta_dev_v1/internal/api/dto"
	"contenta_dev_v1/internal/middleware"
	"contenta_dev_v1/internal/repository"
)

const (
	defaultUsageDays = 30
	maxUsageDays     = 365
)

// UsageController AI 调用用量
type UsageController struct {
	callLogRepo repository.AICallLogRepository
}

func NewUsageController(callLogRepo repository.AICallLogRepository) *UsageController {
	return &UsageController{callLogRepo: callLogRepo}
}

// GetUsage 当前用户最近 N 天的调用统计
// @Summary AI 调用用量
// @Tags Usage
// @Param days query int false "统计天数，默认 30"
// @Success 200 {object} dto.UsageResponse
// @Router /api/usage [get]
func (ctrl *UsageController) GetUsage(c *gin.Context) {
	var q dto.UsageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	if q.Days <= 0 {
		q.Days = defaultUsageDays
	}
	if q.Days > maxUsageDays {
		q.Days = maxUsageDays
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	end := time.Now()
	start := end.AddDate(0, 0, -q.Days)

	total, err := ctrl.callLogRepo.GetUsageByUser(ctx, userID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}
	modes, err := ctrl.callLogRepo.GetModeUsage(ctx, userID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}

	respondOK(c, dto.UsageResponse{Days: q.Days, Total: total, Modes: modes})
}
