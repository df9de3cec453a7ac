// Package handler 实现了所有 HTTP 接口。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomie-match-go/internal/model"
)

// respondOK 按统一信封返回成功响应，message 可为空。
func respondOK(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// respondError 把业务错误分类映射为 HTTP 状态码和统一信封。
// fallback 是 500 场景下对外的兜底描述。
func respondError(c *gin.Context, err error, fallback string) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		body := gin.H{"success": false, "message": vErr.Message}
		if len(vErr.Fields) > 0 {
			body["errors"] = vErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": fallback})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": fallback})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": fallback})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fallback,
			"error":   err.Error(),
		})
	}
}

// respondBadRequest 用于 handler 层自身的参数缺失检查。
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
