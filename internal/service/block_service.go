package service

import (
	"context"

	"github.com/mautops/survey-gin/internal/metrics"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
)

// BlockService 区块服务接口
type BlockService interface {
	List(scheduleID string) (model.BlockList, error)
	Get(scheduleID, blockID string) (model.Block, error)
	Create(ctx context.Context, scheduleID string, req store.AddBlockRequest) (model.Block, error)
	Update(ctx context.Context, scheduleID, blockID string, draft model.BlockDraft) (model.Block, error)
	Delete(ctx context.Context, scheduleID, blockID string, confirmed bool) error
	Move(ctx context.Context, scheduleID, blockID string, dir model.Direction) (model.BlockList, bool, error)
}

// blockService 区块服务实现
type blockService struct {
	store       *store.Store
	auditLogSvc AuditLogService
	publisher   Publisher
}

// NewBlockService 创建区块服务
func NewBlockService(st *store.Store, auditLogSvc AuditLogService, publisher Publisher) BlockService {
	return &blockService{
		store:       st,
		auditLogSvc: auditLogSvc,
		publisher:   publisher,
	}
}

// List 按顺序列出区块
func (s *blockService) List(scheduleID string) (model.BlockList, error) {
	return s.store.Blocks(scheduleID)
}

// Get 获取区块
func (s *blockService) Get(scheduleID, blockID string) (model.Block, error) {
	return s.store.Block(scheduleID, blockID)
}

// Create 基于模板或自定义字段创建区块
func (s *blockService) Create(ctx context.Context, scheduleID string, req store.AddBlockRequest) (model.Block, error) {
	block, err := s.store.AddBlock(ctx, scheduleID, req)
	if err != nil {
		return model.Block{}, err
	}

	metrics.RecordBlockOperation("create", string(req.Mode))
	recordAudit(ctx, s.auditLogSvc, "create", model.ResourceBlock, block.ID, scheduleID, map[string]interface{}{
		"name":        block.Name,
		"mode":        req.Mode,
		"template_id": req.TemplateID,
		"fields":      len(block.Fields),
	})
	publish(ctx, s.publisher, websocket.Event{
		Type:       websocket.EventBlockCreated,
		ScheduleID: scheduleID,
		BlockID:    block.ID,
		Data:       block,
	})
	return block, nil
}

// Update 更新区块
func (s *blockService) Update(ctx context.Context, scheduleID, blockID string, draft model.BlockDraft) (model.Block, error) {
	block, err := s.store.UpdateBlock(ctx, scheduleID, blockID, draft)
	if err != nil {
		return model.Block{}, err
	}

	metrics.RecordBlockOperation("update", "")
	recordAudit(ctx, s.auditLogSvc, "update", model.ResourceBlock, blockID, scheduleID, map[string]interface{}{
		"name":      block.Name,
		"fields":    len(block.Fields),
		"completed": block.Completed,
	})
	publish(ctx, s.publisher, websocket.Event{
		Type:       websocket.EventBlockUpdated,
		ScheduleID: scheduleID,
		BlockID:    blockID,
		Data:       block,
	})
	return block, nil
}

// Delete 删除区块,需要确认
func (s *blockService) Delete(ctx context.Context, scheduleID, blockID string, confirmed bool) error {
	if err := s.store.DeleteBlock(ctx, scheduleID, blockID, confirmed); err != nil {
		return err
	}

	metrics.RecordBlockOperation("delete", "")
	recordAudit(ctx, s.auditLogSvc, "delete", model.ResourceBlock, blockID, scheduleID, nil)
	publish(ctx, s.publisher, websocket.Event{
		Type:       websocket.EventBlockDeleted,
		ScheduleID: scheduleID,
		BlockID:    blockID,
	})
	return nil
}

// Move 上移或下移区块,边界移动为空操作且不产生审计和事件
func (s *blockService) Move(ctx context.Context, scheduleID, blockID string, dir model.Direction) (model.BlockList, bool, error) {
	blocks, moved, err := s.store.MoveBlock(ctx, scheduleID, blockID, dir)
	if err != nil || !moved {
		return blocks, moved, err
	}

	metrics.RecordBlockOperation("move", "")
	recordAudit(ctx, s.auditLogSvc, "move", model.ResourceBlock, blockID, scheduleID, map[string]interface{}{
		"direction": dir,
	})
	publish(ctx, s.publisher, websocket.Event{
		Type:       websocket.EventBlockMoved,
		ScheduleID: scheduleID,
		BlockID:    blockID,
		Data:       blocks.IDs(),
	})
	return blocks, true, nil
}
