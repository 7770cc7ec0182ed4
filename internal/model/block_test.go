package model_test

import (
	"testing"

	"github.com/mautops/survey-gin/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleBlocks() model.BlockList {
	return model.BlockList{
		{ID: "a", Name: "A", Fields: []model.Field{{ID: "f1", Label: "F1", Type: model.FieldTypeSelect, Options: []string{"x"}}}},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	}
}

// TestBlockList_Swap 测试交换返回新列表
func TestBlockList_Swap(t *testing.T) {
	list := sampleBlocks()

	swapped := list.Swap(0, 2)
	assert.Equal(t, []string{"c", "b", "a"}, swapped.IDs())
	assert.Equal(t, []string{"a", "b", "c"}, list.IDs())

	// 越界时返回副本
	assert.Equal(t, []string{"a", "b", "c"}, list.Swap(-1, 1).IDs())
	assert.Equal(t, []string{"a", "b", "c"}, list.Swap(0, 3).IDs())

	// 副本与原列表不共享字段选项
	swapped[2].Fields[0].Options[0] = "changed"
	assert.Equal(t, "x", list[0].Fields[0].Options[0])
}

// TestBlockList_Move 测试相邻移动与边界
func TestBlockList_Move(t *testing.T) {
	list := sampleBlocks()

	_, moved := list.Move("a", model.DirectionUp)
	assert.False(t, moved)
	_, moved = list.Move("c", model.DirectionDown)
	assert.False(t, moved)
	_, moved = list.Move("zzz", model.DirectionDown)
	assert.False(t, moved)

	up, moved := list.Move("b", model.DirectionUp)
	assert.True(t, moved)
	assert.Equal(t, []string{"b", "a", "c"}, up.IDs())

	back, moved := up.Move("b", model.DirectionDown)
	assert.True(t, moved)
	assert.Equal(t, list.IDs(), back.IDs())
}

// TestBlockList_ReplaceRemove 测试替换与删除
func TestBlockList_ReplaceRemove(t *testing.T) {
	list := sampleBlocks()

	replaced, ok := list.Replace(model.Block{ID: "b", Name: "B2"})
	assert.True(t, ok)
	assert.Equal(t, "B2", replaced[1].Name)
	assert.Equal(t, "B", list[1].Name)

	_, ok = list.Replace(model.Block{ID: "zzz"})
	assert.False(t, ok)

	removed, ok := list.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, removed.IDs())

	_, ok = list.Remove("zzz")
	assert.False(t, ok)
}
