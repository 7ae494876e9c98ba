package middleware

import (
	"VidTube/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "requestID"
)

// RequestLogger 为每个请求分配request_id，请求结束后记录方法、路径、状态码、耗时和登录用户
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := logger.Log.WithField("request_id", requestID).
			WithField("method", c.Request.Method).
			WithField("path", c.FullPath()).
			WithField("status", status).
			WithField("latency_ms", time.Since(start).Milliseconds()).
			WithField("ip", c.ClientIP())
		// 认证中间件在c.Next()里运行，这里才能拿到登录用户
		if userID, ok := c.Get(ContextUserID); ok {
			entry = entry.WithField("user_id", userID).WithField("username", c.GetString(ContextUsername))
		}
		switch {
		case status >= 500:
			entry.Error("请求处理完成")
		case status >= 400:
			entry.Warn("请求处理完成")
		default:
			entry.Info("请求处理完成")
		}
	}
}
