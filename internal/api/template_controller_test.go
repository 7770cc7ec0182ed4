package api_test

import (
	"net/http"
	"testing"

	"github.com/mautops/survey-gin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplateAPI 测试模板查询
func TestTemplateAPI(t *testing.T) {
	s := setupServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var templates []model.Template
	decode(t, env, &templates)
	assert.NotEmpty(t, templates)
	assert.Equal(t, len(templates), env.Total)

	w, env = s.do(t, http.MethodGet, "/api/v1/templates/basic-info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tpl model.Template
	decode(t, env, &tpl)
	assert.Equal(t, "basic-info", tpl.ID)
	assert.NotEmpty(t, tpl.Items)

	w, env = s.do(t, http.MethodGet, "/api/v1/templates/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	decode(t, env, &categories)
	assert.Contains(t, categories, tpl.Category)

	w, env = s.do(t, http.MethodGet, "/api/v1/templates?category="+tpl.Category, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &templates)
	for _, item := range templates {
		assert.Equal(t, tpl.Category, item.Category)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/templates/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.template_not_found", env.Key)
}
