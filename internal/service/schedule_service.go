package service

import (
	"context"
	"time"

	"github.com/mautops/survey-gin/internal/metrics"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
	"github.com/sirupsen/logrus"
)

// Publisher 变更事件发布者
type Publisher interface {
	Publish(event websocket.Event)
}

// ScheduleService 调查计划服务接口
type ScheduleService interface {
	List(search string) []*model.Schedule
	Get(id string) (*model.Schedule, error)
	Create(ctx context.Context, draft model.ScheduleDraft) (*model.Schedule, error)
	Update(ctx context.Context, id string, draft model.ScheduleDraft) (*model.Schedule, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	Clone(ctx context.Context, id string) (*model.Schedule, error)
	History(ctx context.Context, id string) ([]*model.AuditLogModel, error)
}

// scheduleService 调查计划服务实现
type scheduleService struct {
	store       *store.Store
	auditLogSvc AuditLogService
	publisher   Publisher
}

// NewScheduleService 创建调查计划服务
// auditLogSvc 和 publisher 可以为 nil
func NewScheduleService(st *store.Store, auditLogSvc AuditLogService, publisher Publisher) ScheduleService {
	return &scheduleService{
		store:       st,
		auditLogSvc: auditLogSvc,
		publisher:   publisher,
	}
}

// List 列出调查计划,search 非空时按关键字过滤
func (s *scheduleService) List(search string) []*model.Schedule {
	return s.store.Search(search)
}

// Get 获取调查计划
func (s *scheduleService) Get(id string) (*model.Schedule, error) {
	return s.store.Get(id)
}

// Create 创建调查计划
func (s *scheduleService) Create(ctx context.Context, draft model.ScheduleDraft) (*model.Schedule, error) {
	sc, err := s.store.Add(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.afterScheduleChange(ctx, "create", websocket.EventScheduleCreated, sc.ID, map[string]interface{}{
		"name": sc.Name,
		"year": sc.Year,
	}, sc)
	return sc, nil
}

// Update 更新调查计划属性
func (s *scheduleService) Update(ctx context.Context, id string, draft model.ScheduleDraft) (*model.Schedule, error) {
	sc, err := s.store.Update(ctx, id, draft)
	if err != nil {
		return nil, err
	}

	s.afterScheduleChange(ctx, "update", websocket.EventScheduleUpdated, sc.ID, map[string]interface{}{
		"name":      sc.Name,
		"year":      sc.Year,
		"is_active": sc.IsActive,
	}, sc)
	return sc, nil
}

// Delete 删除调查计划,需要确认
func (s *scheduleService) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := s.store.Delete(ctx, id, confirmed); err != nil {
		return err
	}

	s.afterScheduleChange(ctx, "delete", websocket.EventScheduleDeleted, id, nil, nil)
	return nil
}

// Clone 复制调查计划
func (s *scheduleService) Clone(ctx context.Context, id string) (*model.Schedule, error) {
	sc, err := s.store.Clone(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterScheduleChange(ctx, "clone", websocket.EventScheduleCloned, sc.ID, map[string]interface{}{
		"source_id": id,
		"blocks":    len(sc.Blocks),
	}, sc)
	return sc, nil
}

// History 调查计划的操作记录,未启用审计时返回空列表
func (s *scheduleService) History(ctx context.Context, id string) ([]*model.AuditLogModel, error) {
	if _, err := s.store.Get(id); err != nil {
		return nil, err
	}
	if s.auditLogSvc == nil {
		return []*model.AuditLogModel{}, nil
	}
	return s.auditLogSvc.ScheduleHistory(ctx, id)
}

// afterScheduleChange 记录审计日志、指标并推送变更事件
func (s *scheduleService) afterScheduleChange(ctx context.Context, action, eventType, id string, details map[string]interface{}, data interface{}) {
	metrics.RecordScheduleOperation(action)
	recordAudit(ctx, s.auditLogSvc, action, model.ResourceSchedule, id, id, details)
	publish(ctx, s.publisher, websocket.Event{
		Type:       eventType,
		ScheduleID: id,
		Data:       data,
	})
}

// recordAudit 审计失败只记录日志,不影响已完成的操作
func recordAudit(ctx context.Context, svc AuditLogService, action, resourceType, resourceID, scheduleID string, details interface{}) {
	if svc == nil {
		return
	}
	if err := svc.RecordAction(ctx, action, resourceType, resourceID, scheduleID, details); err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id":    model.StringFromContext(ctx, model.RequestIDContextKey),
			"action":        action,
			"resource_type": resourceType,
			"resource_id":   resourceID,
		}).WithError(err).Warn("failed to record audit log")
	}
}

// publish 补全操作人和时间后推送事件
func publish(ctx context.Context, p Publisher, event websocket.Event) {
	if p == nil {
		return
	}
	event.Operator = GetOperator(ctx)
	event.Timestamp = time.Now()
	p.Publish(event)
}
