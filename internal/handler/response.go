package handler

import (
	"VidTube/internal/apperror"
	"VidTube/internal/middleware"
	"VidTube/internal/pagination"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response 定义了标准的API成功响应结构
type Response struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
}

// ListPayload 分页列表的data部分
type ListPayload struct {
	Items      interface{}     `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{StatusCode: code, Error: message})
}

func sendSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{StatusCode: code, Message: message, Data: data})
}

func sendList(c *gin.Context, message string, items interface{}, meta pagination.Meta) {
	sendSuccess(c, http.StatusOK, message, ListPayload{Items: items, Pagination: meta})
}

// statusFor 错误种类到HTTP状态码的映射，未知错误按500处理
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError 业务错误直接把Message返回给调用方；基础设施错误只记日志，对外返回笼统的提示
func writeError(c *gin.Context, logCtx *logrus.Entry, err error) {
	logCtx = logCtx.WithField("request_id", c.GetString(middleware.ContextRequestID))
	var appErr *apperror.AppError
	if apperror.IsInfrastructure(err) || !errors.As(err, &appErr) {
		logCtx.WithError(err).Error("请求处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "服务器内部错误，请稍后再试")
		return
	}
	code := statusFor(err)
	logCtx.WithError(err).Warn("请求被拒绝")
	c.AbortWithStatusJSON(code, ErrorResponse{StatusCode: code, Error: appErr.Message, Field: appErr.Field})
}
