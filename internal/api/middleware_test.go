package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mautops/survey-gin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealth 测试健康检查
func TestHealth(t *testing.T) {
	s := setupServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(s.store.Len()), body["schedules"])
	assert.Equal(t, "not configured", body["checks"].(map[string]interface{})["database"])
}

// TestMetricsEndpoint 测试指标端点
func TestMetricsEndpoint(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodGet, "/api/v1/schedules", nil)
	w, _ := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api_requests_total")
}

// TestRateLimit 测试超出限流返回 429
func TestRateLimit(t *testing.T) {
	s := setupServer(t, func(cfg *config.Config) {
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 1
	})

	w, _ := s.do(t, http.MethodGet, "/api/v1/schedules", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/v1/schedules", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "error.too_many_requests", env.Key)

	// 健康检查不受限流影响
	w, _ = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestCORS 测试预检请求
func TestCORS(t *testing.T) {
	s := setupServer(t, func(cfg *config.Config) {
		cfg.CORS.AllowedOrigins = []string{"https://survey.example.org"}
	})

	w, _ := s.do(t, http.MethodOptions, "/api/v1/schedules", nil, "Origin", "https://survey.example.org")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://survey.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Operator")

	w, _ = s.do(t, http.MethodOptions, "/api/v1/schedules", nil, "Origin", "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// TestNotFoundRoute 测试未注册路由
func TestNotFoundRoute(t *testing.T) {
	s := setupServer(t)
	w, env := s.do(t, http.MethodGet, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resource not found", env.Message)
}
