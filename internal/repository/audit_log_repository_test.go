package repository_test

import (
	"testing"
	"time"

	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuditLogRepository_Save 测试保存审计日志
func TestAuditLogRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	auditLog := &model.AuditLogModel{
		ID:           "audit-001",
		Operator:     "alice",
		Action:       "create",
		ResourceType: model.ResourceSchedule,
		ResourceID:   "schedule-001",
		ScheduleID:   "schedule-001",
		RequestID:    "req-001",
		IP:           "127.0.0.1",
		Details:      []byte(`{"name":"ASI 2023-24"}`),
		CreatedAt:    time.Now(),
	}

	err := repo.Save(auditLog)
	assert.NoError(t, err)

	// 验证审计日志已保存
	var saved model.AuditLogModel
	err = db.Where("id = ?", "audit-001").First(&saved).Error
	assert.NoError(t, err)
	assert.Equal(t, "alice", saved.Operator)
	assert.Equal(t, "create", saved.Action)
	assert.Equal(t, model.ResourceSchedule, saved.ResourceType)
}

// TestAuditLogRepository_SaveInvalid 测试非法审计日志
func TestAuditLogRepository_SaveInvalid(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	err := repo.Save(&model.AuditLogModel{ID: "audit-x", Action: "create", ResourceType: "template", ResourceID: "t"})
	assert.Error(t, err)
}

// TestAuditLogRepository_Find 测试按调查计划查询
func TestAuditLogRepository_Find(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAuditLogRepository(db)
	now := time.Now()

	logs := []*model.AuditLogModel{
		{ID: "a1", Operator: "alice", Action: "create", ResourceType: model.ResourceSchedule, ResourceID: "s1", ScheduleID: "s1", CreatedAt: now.Add(-3 * time.Minute)},
		{ID: "a2", Operator: "bob", Action: "create", ResourceType: model.ResourceBlock, ResourceID: "b1", ScheduleID: "s1", CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "a3", Operator: "alice", Action: "create", ResourceType: model.ResourceSchedule, ResourceID: "s2", ScheduleID: "s2", CreatedAt: now.Add(-time.Minute)},
	}
	for _, l := range logs {
		require.NoError(t, repo.Save(l))
	}

	bySchedule, err := repo.FindBySchedule("s1")
	require.NoError(t, err)
	require.Len(t, bySchedule, 2)
	assert.Equal(t, "a2", bySchedule[0].ID)
	assert.Equal(t, "a1", bySchedule[1].ID)
}
