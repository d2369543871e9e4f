package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"contenta_dev_v1/internal/api/dto"
	"contenta_dev_v1/internal/middleware"
	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/service"
)

// ==================== 控制器 ====================

// OutputController 历史记录、收藏与导出
type OutputController struct {
	outputs *service.OutputService
	exports *service.ExportService
}

func NewOutputController(outputs *service.OutputService, exports *service.ExportService) *OutputController {
	return &OutputController{outputs: outputs, exports: exports}
}

// ==================== 查询 ====================

// ListOutputs 历史记录列表
// @Summary 历史记录（按时间倒序）
// @Tags Output
// @Produce json
// @Param mode query string false "generate/ideas/enhance/vision"
// @Param platform query string false "平台"
// @Param q query string false "关键字"
// @Param favorite query bool false "仅收藏"
// @Success 200 {object} dto.ListOutputsResponse
// @Router /api/outputs [get]
func (ctrl *OutputController) ListOutputs(c *gin.Context) {
	var q dto.ListOutputsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	filter := model.OutputFilter{
		Platform:      q.Platform,
		Query:         q.Query,
		FavoritesOnly: q.Favorite,
	}
	if q.Mode != "" {
		mode, err := model.ParseOutputMode(q.Mode)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.Mode = mode
	}

	items := ctrl.outputs.SearchOutputs(c.Request.Context(), middleware.GetUserID(c), filter)
	respondOK(c, dto.ListOutputsResponse{Total: len(items), Items: items})
}

// ListFavorites 收藏列表
// @Summary 收藏的记录
// @Tags Output
// @Success 200 {object} dto.ListOutputsResponse
// @Router /api/outputs/favorites [get]
func (ctrl *OutputController) ListFavorites(c *gin.Context) {
	items := ctrl.outputs.ListFavorites(c.Request.Context(), middleware.GetUserID(c))
	respondOK(c, dto.ListOutputsResponse{Total: len(items), Items: items})
}

// GetOutput 单条记录
// @Summary 记录详情
// @Tags Output
// @Param id path string true "记录ID"
// @Success 200 {object} model.OutputRecord
// @Router /api/outputs/{id} [get]
func (ctrl *OutputController) GetOutput(c *gin.Context) {
	rec, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	respondOK(c, rec)
}

// ==================== 修改 ====================

// ToggleFavorite 切换收藏
// @Summary 切换收藏状态
// @Tags Output
// @Param id path string true "记录ID"
// @Success 200 {object} model.OutputRecord
// @Router /api/outputs/{id}/favorite [post]
func (ctrl *OutputController) ToggleFavorite(c *gin.Context) {
	rec := ctrl.outputs.ToggleFavorite(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if rec == nil {
		respondServiceError(c, service.ErrOutputNotFound)
		return
	}
	respondOK(c, rec)
}

// RemoveOutput 删除记录，不存在也返回成功
// @Summary 删除记录
// @Tags Output
// @Param id path string true "记录ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/outputs/{id} [delete]
func (ctrl *OutputController) RemoveOutput(c *gin.Context) {
	ctrl.outputs.RemoveOutput(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	respondOK(c, nil)
}

// ClearOutputs 清空历史
// @Summary 清空全部记录
// @Tags Output
// @Success 200 {object} map[string]interface{}
// @Router /api/outputs [delete]
func (ctrl *OutputController) ClearOutputs(c *gin.Context) {
	ctrl.outputs.ClearAll(c.Request.Context(), middleware.GetUserID(c))
	respondOK(c, nil)
}

// ==================== 导出 ====================

// ExportOutput 下载导出文件
// @Summary 导出为 txt/md/pdf
// @Tags Export
// @Produce octet-stream
// @Param id path string true "记录ID"
// @Param format query string false "txt/md/pdf，默认 txt"
// @Success 200 {file} file
// @Router /api/outputs/{id}/export [get]
func (ctrl *OutputController) ExportOutput(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	rec, ok := ctrl.lookup(c)
	if !ok {
		return
	}

	file, err := ctrl.exports.Export(rec, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// PublishOutput 导出并上传到文件存储
// @Summary 导出并上传，返回访问地址
// @Tags Export
// @Param id path string true "记录ID"
// @Param format query string false "txt/md/pdf，默认 txt"
// @Success 200 {object} service.PublishResult
// @Router /api/outputs/{id}/publish [post]
func (ctrl *OutputController) PublishOutput(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	rec, ok := ctrl.lookup(c)
	if !ok {
		return
	}

	result, err := ctrl.exports.Publish(c.Request.Context(), rec, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// PreviewOutput HTML 预览
// @Summary markdown 排版的 HTML 预览
// @Tags Export
// @Param id path string true "记录ID"
// @Success 200 {object} dto.PreviewResponse
// @Router /api/outputs/{id}/preview [get]
func (ctrl *OutputController) PreviewOutput(c *gin.Context) {
	rec, ok := ctrl.lookup(c)
	if !ok {
		return
	}

	html, err := ctrl.exports.Preview(rec)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, dto.PreviewResponse{ID: rec.ID, HTML: html})
}

// ==================== 辅助 ====================

func (ctrl *OutputController) lookup(c *gin.Context) (*model.OutputRecord, bool) {
	rec := ctrl.outputs.GetOutput(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if rec == nil {
		respondServiceError(c, service.ErrOutputNotFound)
		return nil, false
	}
	return rec, true
}

func exportFormat(c *gin.Context) (service.ExportFormat, bool) {
	var q dto.ExportQuery
	_ = c.ShouldBindQuery(&q)
	format, err := service.ParseExportFormat(q.Format)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	return format, true
}
