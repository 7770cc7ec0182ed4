package service

import (
	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/model"
)

// TemplateService 模板服务接口,模板目录只读
type TemplateService interface {
	List(category string) []model.Template
	Get(id string) (model.Template, error)
	Categories() []string
}

// templateService 模板服务实现
type templateService struct {
	catalog *catalog.Catalog
}

// NewTemplateService 创建模板服务
func NewTemplateService(c *catalog.Catalog) TemplateService {
	return &templateService{catalog: c}
}

// List 列出模板,category 非空时按分类过滤
func (s *templateService) List(category string) []model.Template {
	all := s.catalog.List()
	if category == "" {
		return all
	}
	out := make([]model.Template, 0, len(all))
	for _, tpl := range all {
		if tpl.Category == category {
			out = append(out, tpl)
		}
	}
	return out
}

// Get 获取模板
func (s *templateService) Get(id string) (model.Template, error) {
	return s.catalog.Get(id)
}

// Categories 模板分类
func (s *templateService) Categories() []string {
	return s.catalog.Categories()
}
