package model

import "context"

type contextKey string

// context 中携带的请求信息
const (
	OperatorContextKey  contextKey = "operator"
	RequestIDContextKey contextKey = "request_id"
	ClientIPContextKey  contextKey = "ip"
)

// DefaultOperator 请求未携带操作人时使用
const DefaultOperator = "anonymous"

// StringFromContext 读取 context 中的字符串值
func StringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
