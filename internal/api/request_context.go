package api

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mautops/survey-gin/internal/model"
)

// gin 上下文中的 key
const (
	requestIDKey = "request_id"
	operatorKey  = "operator"
)

// 请求头
const (
	HeaderRequestID = "X-Request-ID"
	HeaderOperator  = "X-Operator"
)

// RequestIDMiddleware 为每个请求分配请求 ID,沿用客户端传入的值
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestContextMiddleware 将操作人、请求 ID 和客户端 IP 写入请求 context
// 服务层通过 context 读取这些信息记录审计日志
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := strings.TrimSpace(c.GetHeader(HeaderOperator))
		if operator == "" {
			operator = model.DefaultOperator
		}
		c.Set(operatorKey, operator)

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, model.OperatorContextKey, operator)
		ctx = context.WithValue(ctx, model.RequestIDContextKey, c.GetString(requestIDKey))
		ctx = context.WithValue(ctx, model.ClientIPContextKey, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
