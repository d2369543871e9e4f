package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contenta_dev_v1/internal/service"
)

// ==================== 统一响应 ====================

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": msg,
	})
}

// respondServiceError 业务错误映射为 HTTP 状态码
func respondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	respondError(c, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOutputNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable
	default:
		// 包括 ErrProviderNotConfigured
		return http.StatusInternalServerError
	}
}
