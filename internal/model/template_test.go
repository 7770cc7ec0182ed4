package model_test

import (
	"testing"

	"github.com/mautops/survey-gin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplate_Materialize 测试模板条目转换为字段
func TestTemplate_Materialize(t *testing.T) {
	tpl := model.Template{
		ID: "tpl",
		Items: []model.TemplateItem{
			{ItemID: "second", ItemName: "Second", DataType: "number", OrderIndex: 2, ValidationRules: map[string]interface{}{"min": 0}},
			{ItemID: "first", ItemName: "First", DataType: "TEXT", IsRequired: true, MaxLength: 20, OrderIndex: 1},
			{ItemID: "third", ItemName: "Third", DataType: "currency", OrderIndex: 3, Options: []string{"a"}},
		},
	}

	fields, err := tpl.Materialize()
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "first", fields[0].ID)
	assert.Equal(t, model.FieldTypeText, fields[0].Type)
	assert.True(t, fields[0].Required)
	assert.Equal(t, 20, fields[0].MaxLength)
	assert.Equal(t, "{}", fields[0].Validation)

	assert.Equal(t, model.FieldTypeNumber, fields[1].Type)
	assert.JSONEq(t, `{"min":0}`, fields[1].Validation)

	// 未知数据类型回退为 text
	assert.Equal(t, model.FieldTypeText, fields[2].Type)
	assert.Equal(t, []string{"a"}, fields[2].Options)

	// 原模板不被排序影响
	assert.Equal(t, "second", tpl.Items[0].ItemID)
}

// TestField_Rules 测试校验规则反序列化
func TestField_Rules(t *testing.T) {
	rules, err := model.Field{Validation: `{"min":1,"pattern":"^a"}`}.Rules()
	require.NoError(t, err)
	assert.Equal(t, float64(1), rules["min"])
	assert.Equal(t, "^a", rules["pattern"])

	rules, err = model.Field{}.Rules()
	require.NoError(t, err)
	assert.Empty(t, rules)

	_, err = model.Field{ID: "x", Validation: "{oops"}.Rules()
	assert.Error(t, err)
}

// TestScheduleDraft_Validate 测试调查计划表单校验
func TestScheduleDraft_Validate(t *testing.T) {
	assert.NoError(t, model.ScheduleDraft{Name: "A", Year: "2024"}.Validate())
	assert.ErrorIs(t, model.ScheduleDraft{Name: "A"}.Validate(), model.ErrNameAndYearRequired)
	assert.ErrorIs(t, model.ScheduleDraft{Year: "2024"}.Validate(), model.ErrNameAndYearRequired)
	assert.ErrorIs(t, model.ScheduleDraft{Name: "A", Year: "2024", Sector: "Mining"}.Validate(), model.ErrInvalidSector)
}
