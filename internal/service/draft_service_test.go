package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mautops/survey-gin/internal/editor"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDraftService_CustomFlow 测试自定义模式完整流程
func TestDraftService_CustomFlow(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)
	ctx := operatorContext("alice")

	d, err := drafts.Open(asiID)
	require.NoError(t, err)
	assert.Equal(t, editor.StageConfiguringMetadata, d.Stage)
	assert.Equal(t, 1, drafts.Len())

	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		return d.SetMetadata("Remarks", "Free text remarks", false, false)
	})
	require.NoError(t, err)
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		return d.ChooseMethod(model.CreationModeCustom)
	})
	require.NoError(t, err)
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		if err := d.SetItem(editor.ItemForm{ItemID: "remark", ItemName: "Remark", DataType: model.FieldTypeTextarea}); err != nil {
			return err
		}
		if err := d.AddValidationRule(`{"maxLength":500}`); err != nil {
			return err
		}
		_, err := d.AddItem()
		return err
	})
	require.NoError(t, err)

	block, err := drafts.Commit(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Remarks", block.Name)
	require.Len(t, block.Fields, 1)
	assert.JSONEq(t, `{"maxLength":500}`, block.Fields[0].Validation)

	// 保存后草稿被移除
	_, err = drafts.Get(d.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
	assert.Equal(t, 0, drafts.Len())

	blocks, err := env.blocks.List(asiID)
	require.NoError(t, err)
	assert.Equal(t, block.ID, blocks[len(blocks)-1].ID)
}

// TestDraftService_ApplyFailureKeepsState 测试编辑失败时草稿不变
func TestDraftService_ApplyFailureKeepsState(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)

	d, err := drafts.Open(asiID)
	require.NoError(t, err)
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		if err := d.SetMetadata("Remarks", "", false, false); err != nil {
			return err
		}
		return d.ChooseMethod(model.CreationModeCustom)
	})
	require.NoError(t, err)
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		return d.AddValidationRule(`{"min":1}`)
	})
	require.NoError(t, err)

	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		if err := d.AddValidationRule(`{"max":9}`); err != nil {
			return err
		}
		return d.AddValidationRule(`{not json`)
	})
	assert.ErrorIs(t, err, model.ErrInvalidRuleJSON)

	got, err := drafts.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"min": float64(1)}, got.Item.ValidationRules)
}

// TestDraftService_TemplateFlow 测试模板模式提交
func TestDraftService_TemplateFlow(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)

	d, err := drafts.Open("schedule-capex-2022-23")
	require.NoError(t, err)
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		if err := d.SetMetadata("Basic Information", "", false, false); err != nil {
			return err
		}
		return d.ChooseMethod(model.CreationModeTemplate)
	})
	require.NoError(t, err)

	// 未选择模板不能保存
	_, err = drafts.Commit(context.Background(), d.ID)
	assert.ErrorIs(t, err, model.ErrTemplateRequired)

	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		return d.SelectTemplate("basic-info")
	})
	require.NoError(t, err)

	block, err := drafts.Commit(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Len(t, block.Fields, 4)
}

// TestDraftService_EditExistingBlock 测试编辑已有区块保持 ID
func TestDraftService_EditExistingBlock(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)

	original, err := env.blocks.Get(asiID, "block-asi-employment")
	require.NoError(t, err)

	d, err := drafts.OpenForBlock(asiID, "block-asi-employment")
	require.NoError(t, err)
	assert.True(t, d.IsEdit())
	require.NotEmpty(t, d.Metadata.Fields)

	removedID := original.Fields[0].ID
	_, err = drafts.Apply(d.ID, func(d *editor.Draft) error {
		_, err := d.RemoveItem(removedID)
		return err
	})
	require.NoError(t, err)

	block, err := drafts.Commit(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "block-asi-employment", block.ID)
	assert.Len(t, block.Fields, len(original.Fields)-1)

	blocks, err := env.blocks.List(asiID)
	require.NoError(t, err)
	assert.Equal(t, 1, blocks.IndexOf("block-asi-employment"))

	_, err = drafts.OpenForBlock(asiID, "block-missing")
	assert.ErrorIs(t, err, store.ErrBlockNotFound)
}

// TestDraftService_OpenUnknownSchedule 测试调查计划不存在
func TestDraftService_OpenUnknownSchedule(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)

	_, err := drafts.Open("schedule-missing")
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)
	assert.Equal(t, 0, drafts.Len())
}

// TestDraftService_Discard 测试放弃草稿
func TestDraftService_Discard(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, time.Minute)

	d, err := drafts.Open(asiID)
	require.NoError(t, err)
	require.NoError(t, drafts.Discard(d.ID))
	assert.ErrorIs(t, drafts.Discard(d.ID), service.ErrDraftNotFound)

	_, err = drafts.Commit(context.Background(), d.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

// TestDraftService_Expiry 测试草稿过期
func TestDraftService_Expiry(t *testing.T) {
	env := setupEnv(t)
	drafts := service.NewDraftService(env.blocks, 20*time.Millisecond)

	expired, err := drafts.Open(asiID)
	require.NoError(t, err)
	other, err := drafts.Open(asiID)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = drafts.Get(expired.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)

	assert.Equal(t, 1, drafts.Sweep())
	assert.Equal(t, 0, drafts.Len())
	_, err = drafts.Get(other.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}
