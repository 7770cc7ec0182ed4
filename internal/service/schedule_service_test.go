package service_test

import (
	"context"
	"testing"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduleService_CreateRecordsAudit 测试创建后写入审计日志并推送事件
func TestScheduleService_CreateRecordsAudit(t *testing.T) {
	env := setupEnv(t)
	ctx := operatorContext("alice")

	sc, err := env.schedules.Create(ctx, model.ScheduleDraft{Name: "ASI 2025-26", Year: "2025-26"})
	require.NoError(t, err)

	history, err := env.schedules.History(ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "create", history[0].Action)
	assert.Equal(t, "alice", history[0].Operator)
	assert.Equal(t, "req-test", history[0].RequestID)

	event := env.publisher.Last()
	assert.Equal(t, websocket.EventScheduleCreated, event.Type)
	assert.Equal(t, sc.ID, event.ScheduleID)
	assert.Equal(t, "alice", event.Operator)
}

// TestScheduleService_ValidationFailure 测试校验失败时不产生审计和事件
func TestScheduleService_ValidationFailure(t *testing.T) {
	env := setupEnv(t)
	before := len(env.schedules.List(""))

	_, err := env.schedules.Create(context.Background(), model.ScheduleDraft{Name: "No year"})
	assert.ErrorIs(t, err, model.ErrNameAndYearRequired)
	assert.Len(t, env.schedules.List(""), before)
	assert.Empty(t, env.publisher.Types())
}

// TestScheduleService_DeleteAndClone 测试删除确认和复制
func TestScheduleService_DeleteAndClone(t *testing.T) {
	env := setupEnv(t)
	ctx := operatorContext("bob")

	err := env.schedules.Delete(ctx, asiID, false)
	assert.ErrorIs(t, err, store.ErrConfirmationRequired)

	cloned, err := env.schedules.Clone(ctx, asiID)
	require.NoError(t, err)
	assert.Equal(t, "ASI 2023-24 (Copy)", cloned.Name)

	require.NoError(t, env.schedules.Delete(ctx, asiID, true))
	_, err = env.schedules.Get(asiID)
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)

	assert.Equal(t, []string{websocket.EventScheduleCloned, websocket.EventScheduleDeleted}, env.publisher.Types())
}

// TestScheduleService_Search 测试关键字过滤
func TestScheduleService_Search(t *testing.T) {
	env := setupEnv(t)
	assert.Len(t, env.schedules.List("services"), 1)
	assert.Len(t, env.schedules.List(""), 3)
}

// TestScheduleService_WithoutAudit 测试未启用审计时服务正常工作
func TestScheduleService_WithoutAudit(t *testing.T) {
	st := store.New(repository.NewMemoryScheduleRepository(), catalog.MustDefault())
	require.NoError(t, st.Load(context.Background()))
	svc := service.NewScheduleService(st, nil, nil)

	sc, err := svc.Create(context.Background(), model.ScheduleDraft{Name: "X", Year: "2024"})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), sc.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.History(context.Background(), "schedule-missing")
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)
}
