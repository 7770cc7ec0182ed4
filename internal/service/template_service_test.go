package service_test

import (
	"testing"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplateService_List 测试模板列表和分类过滤
func TestTemplateService_List(t *testing.T) {
	svc := service.NewTemplateService(catalog.MustDefault())

	all := svc.List("")
	require.NotEmpty(t, all)

	for _, category := range svc.Categories() {
		filtered := svc.List(category)
		require.NotEmpty(t, filtered)
		for _, tpl := range filtered {
			assert.Equal(t, category, tpl.Category)
		}
	}
	assert.Empty(t, svc.List("no-such-category"))
}

// TestTemplateService_Get 测试获取模板
func TestTemplateService_Get(t *testing.T) {
	svc := service.NewTemplateService(catalog.MustDefault())

	tpl, err := svc.Get("basic-info")
	require.NoError(t, err)
	assert.Equal(t, "Basic Information", tpl.Name)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, catalog.ErrTemplateNotFound)
}
