package api_test

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// TestSwagger_DocServed 测试 Swagger 文档可访问
func TestSwagger_DocServed(t *testing.T) {
	s := setupServer(t)

	w, _ := s.do(t, http.MethodGet, "/swagger/index.html", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
}

// TestSwagger_CoversAPIRoutes 测试 /api/v1 下的每个路由都有文档
func TestSwagger_CoversAPIRoutes(t *testing.T) {
	s := setupServer(t)

	w, _ := s.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	documented := 0
	for _, route := range s.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimPrefix(route.Path, "/api/v1"), "{$1}")
		methods, ok := doc.Paths[path]
		if assert.True(t, ok, "path %s not documented", path) {
			assert.Contains(t, methods, strings.ToLower(route.Method), "%s %s not documented", route.Method, path)
		}
		documented++
	}
	assert.Equal(t, 34, documented)
}
