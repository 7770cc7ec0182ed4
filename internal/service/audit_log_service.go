package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
)

// AuditLogService 审计日志服务
type AuditLogService interface {
	RecordAction(ctx context.Context, action, resourceType, resourceID, scheduleID string, details interface{}) error
	ScheduleHistory(ctx context.Context, scheduleID string) ([]*model.AuditLogModel, error)
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(auditRepo repository.AuditLogRepository) AuditLogService {
	return &auditLogService{
		auditRepo: auditRepo,
	}
}

// RecordAction 记录操作审计日志,操作人和请求信息取自 context
func (s *auditLogService) RecordAction(
	ctx context.Context,
	action string,
	resourceType string,
	resourceID string,
	scheduleID string,
	details interface{},
) error {
	// 序列化详情
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	auditLog := &model.AuditLogModel{
		ID:           uuid.New().String(),
		Operator:     GetOperator(ctx),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ScheduleID:   scheduleID,
		RequestID:    model.StringFromContext(ctx, model.RequestIDContextKey),
		IP:           GetClientIP(ctx),
		Details:      detailsJSON,
		CreatedAt:    time.Now(),
	}

	return s.auditRepo.Save(auditLog)
}

// ScheduleHistory 查询调查计划及其区块的审计记录
func (s *auditLogService) ScheduleHistory(ctx context.Context, scheduleID string) ([]*model.AuditLogModel, error) {
	return s.auditRepo.FindBySchedule(scheduleID)
}

// GetOperator 从 context 获取操作人
func GetOperator(ctx context.Context) string {
	if operator := model.StringFromContext(ctx, model.OperatorContextKey); operator != "" {
		return operator
	}
	return model.DefaultOperator
}

// GetClientIP 从 context 获取客户端 IP
func GetClientIP(ctx context.Context) string {
	return model.StringFromContext(ctx, model.ClientIPContextKey)
}
