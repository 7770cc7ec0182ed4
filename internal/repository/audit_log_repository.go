package repository

import (
	"github.com/mautops/survey-gin/internal/model"
	"gorm.io/gorm"
)

// AuditLogRepository 审计日志仓储接口
type AuditLogRepository interface {
	Save(log *model.AuditLogModel) error
	FindBySchedule(scheduleID string) ([]*model.AuditLogModel, error)
}

// auditLogRepository 审计日志仓储实现
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓储
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Save 保存审计日志
func (r *auditLogRepository) Save(log *model.AuditLogModel) error {
	if err := log.Validate(); err != nil {
		return err
	}
	return r.db.Create(log).Error
}

// FindBySchedule 查找调查计划及其区块的审计日志
func (r *auditLogRepository) FindBySchedule(scheduleID string) ([]*model.AuditLogModel, error) {
	var logs []*model.AuditLogModel
	err := r.db.Where("(resource_type = ? AND resource_id = ?) OR schedule_id = ?", model.ResourceSchedule, scheduleID, scheduleID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
