// Package catalog 提供只读的字段模板目录和初始调查计划数据
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/mautops/survey-gin/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

//go:embed schedules.yaml
var schedulesYAML []byte

// ErrTemplateNotFound 模板不存在
var ErrTemplateNotFound = errors.New("template not found")

// Catalog 模板目录
type Catalog struct {
	templates []model.Template
	byID      map[string]int
}

// New 基于给定模板创建目录
func New(templates []model.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]model.Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
	}
	for _, tpl := range templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("template %q has no id", tpl.Name)
		}
		if _, exists := c.byID[tpl.ID]; exists {
			return nil, fmt.Errorf("duplicate template id %s", tpl.ID)
		}
		seen := make(map[string]bool, len(tpl.Items))
		for _, item := range tpl.Items {
			if seen[item.ItemID] {
				return nil, fmt.Errorf("template %s: duplicate item id %s", tpl.ID, item.ItemID)
			}
			seen[item.ItemID] = true
		}
		c.byID[tpl.ID] = len(c.templates)
		c.templates = append(c.templates, tpl)
	}
	return c, nil
}

// Default 加载内置模板目录
func Default() (*Catalog, error) {
	var templates []model.Template
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}
	return New(templates)
}

// MustDefault 加载内置模板目录,失败时 panic
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// List 返回所有模板,按目录顺序
func (c *Catalog) List() []model.Template {
	out := make([]model.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get 根据 ID 获取模板
func (c *Catalog) Get(id string) (model.Template, error) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return c.templates[idx], nil
}

// Categories 返回去重排序后的模板分类
func (c *Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, tpl := range c.templates {
		set[tpl.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for category := range set {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// SeedSchedules 解析内置的初始调查计划
func SeedSchedules() ([]*model.Schedule, error) {
	var schedules []*model.Schedule
	if err := yaml.Unmarshal(schedulesYAML, &schedules); err != nil {
		return nil, fmt.Errorf("failed to parse seed schedules: %w", err)
	}
	for _, s := range schedules {
		if s.Blocks == nil {
			s.Blocks = model.BlockList{}
		}
	}
	return schedules, nil
}
