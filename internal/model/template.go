package model

import (
	"fmt"
	"sort"
)

// TemplateItem 模板中的字段定义
type TemplateItem struct {
	ItemID          string                 `json:"item_id" yaml:"item_id"`
	ItemName        string                 `json:"item_name" yaml:"item_name"`
	DataType        string                 `json:"data_type" yaml:"data_type"`
	MaxLength       int                    `json:"max_length" yaml:"max_length"`
	IsRequired      bool                   `json:"is_required" yaml:"is_required"`
	ValidationRules map[string]interface{} `json:"validation_rules" yaml:"validation_rules"`
	Options         []string               `json:"options,omitempty" yaml:"options"`
	OrderIndex      int                    `json:"order_index" yaml:"order_index"`
}

// Template 可复用的字段组,只读
type Template struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Category    string         `json:"category" yaml:"category"`
	Items       []TemplateItem `json:"items" yaml:"items"`
}

// Materialize 将模板条目逐一转换为字段
// 字段 ID 直接沿用模板条目 ID,按 OrderIndex 排序
func (t Template) Materialize() ([]Field, error) {
	items := make([]TemplateItem, len(t.Items))
	copy(items, t.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OrderIndex < items[j].OrderIndex
	})

	fields := make([]Field, 0, len(items))
	for _, item := range items {
		validation, err := EncodeRules(item.ValidationRules)
		if err != nil {
			return nil, fmt.Errorf("template %s item %s: %w", t.ID, item.ItemID, err)
		}
		fields = append(fields, Field{
			ID:         item.ItemID,
			Label:      item.ItemName,
			Type:       ParseFieldType(item.DataType),
			Value:      "",
			Required:   item.IsRequired,
			Validation: validation,
			MaxLength:  item.MaxLength,
			Options:    append([]string(nil), item.Options...),
		})
	}
	return fields, nil
}
