package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType 字段类型
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeURL      FieldType = "url"
)

// FieldTypes 所有支持的字段类型
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeSelect,
	FieldTypeTextarea,
	FieldTypeCheckbox,
	FieldTypeRadio,
	FieldTypeEmail,
	FieldTypeTel,
	FieldTypeURL,
}

// IsValid 判断字段类型是否受支持
func (t FieldType) IsValid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HasOptions select 和 radio 类型需要选项列表
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// ParseFieldType 解析字段类型,未知类型回退为 text
func ParseFieldType(s string) FieldType {
	ft := FieldType(strings.ToLower(strings.TrimSpace(s)))
	if ft.IsValid() {
		return ft
	}
	return FieldTypeText
}

// Field 区块中的单个数据项定义
type Field struct {
	ID         string    `json:"id" yaml:"id"`
	Label      string    `json:"label" yaml:"label"`
	Type       FieldType `json:"type" yaml:"type"`
	Value      string    `json:"value" yaml:"value"`
	Required   bool      `json:"required" yaml:"required"`
	Validation string    `json:"validation" yaml:"validation"` // 序列化后的校验规则 JSON
	MaxLength  int       `json:"max_length,omitempty" yaml:"max_length"`
	Options    []string  `json:"options,omitempty" yaml:"options"`
}

// Clone 深拷贝字段
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// Rules 反序列化校验规则
func (f Field) Rules() (map[string]interface{}, error) {
	rules := make(map[string]interface{})
	if strings.TrimSpace(f.Validation) == "" {
		return rules, nil
	}
	if err := json.Unmarshal([]byte(f.Validation), &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation rules of field %s: %w", f.ID, err)
	}
	return rules, nil
}

// EncodeRules 将校验规则序列化为字符串,空规则编码为 {}
func EncodeRules(rules map[string]interface{}) (string, error) {
	if len(rules) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("failed to marshal validation rules: %w", err)
	}
	return string(data), nil
}
