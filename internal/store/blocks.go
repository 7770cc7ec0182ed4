package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/mautops/survey-gin/internal/model"
)

// AddBlockRequest 新增区块参数
type AddBlockRequest struct {
	Draft      model.BlockDraft
	Mode       model.CreationMode
	TemplateID string
}

// Blocks 返回调查计划的有序区块列表
func (s *Store) Blocks(scheduleID string) (model.BlockList, error) {
	sc, err := s.Get(scheduleID)
	if err != nil {
		return nil, err
	}
	return sc.Blocks, nil
}

// Block 获取单个区块
func (s *Store) Block(scheduleID, blockID string) (model.Block, error) {
	blocks, err := s.Blocks(scheduleID)
	if err != nil {
		return model.Block{}, err
	}
	idx := blocks.IndexOf(blockID)
	if idx == -1 {
		return model.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	return blocks[idx], nil
}

// AddBlock 向调查计划追加区块
//
// 模板模式下每个模板条目转换为一个字段,字段 ID 沿用条目 ID;
// 自定义模式下字段取自草稿。两种模式都要求区块名称非空。
func (s *Store) AddBlock(ctx context.Context, scheduleID string, req AddBlockRequest) (model.Block, error) {
	if err := req.Draft.Validate(); err != nil {
		return model.Block{}, err
	}

	var fields []model.Field
	switch req.Mode {
	case model.CreationModeTemplate:
		templateID := strings.TrimSpace(req.TemplateID)
		if templateID == "" {
			return model.Block{}, model.ErrTemplateRequired
		}
		tpl, err := s.templates.Get(templateID)
		if err != nil {
			return model.Block{}, err
		}
		fields, err = tpl.Materialize()
		if err != nil {
			return model.Block{}, err
		}
	case model.CreationModeCustom:
		var err error
		fields, err = customFields(req.Draft.Fields)
		if err != nil {
			return model.Block{}, err
		}
	default:
		return model.Block{}, model.ErrInvalidCreationMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	block := model.Block{
		ID:          s.ids.NewID("block"),
		Name:        strings.TrimSpace(req.Draft.Name),
		Description: req.Draft.Description,
		Fields:      fields,
		Completed:   req.Draft.Completed,
		IsGrid:      req.Draft.IsGrid,
	}
	_, err := s.mutateLocked(ctx, scheduleID, func(sc *model.Schedule) error {
		sc.Blocks = append(sc.Blocks.Clone(), block.Clone())
		return nil
	})
	if err != nil {
		return model.Block{}, err
	}
	return block, nil
}

// UpdateBlock 替换同 ID 区块,ID 保持不变
func (s *Store) UpdateBlock(ctx context.Context, scheduleID, blockID string, draft model.BlockDraft) (model.Block, error) {
	if err := draft.Validate(); err != nil {
		return model.Block{}, err
	}
	fields, err := customFields(draft.Fields)
	if err != nil {
		return model.Block{}, err
	}

	block := model.Block{
		ID:          blockID,
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		Fields:      fields,
		Completed:   draft.Completed,
		IsGrid:      draft.IsGrid,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.mutateLocked(ctx, scheduleID, func(sc *model.Schedule) error {
		blocks, ok := sc.Blocks.Replace(block)
		if !ok {
			return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
		}
		sc.Blocks = blocks
		return nil
	})
	if err != nil {
		return model.Block{}, err
	}
	return block, nil
}

// DeleteBlock 删除区块,未确认时返回 ErrConfirmationRequired
func (s *Store) DeleteBlock(ctx context.Context, scheduleID, blockID string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.mutateLocked(ctx, scheduleID, func(sc *model.Schedule) error {
		if sc.Blocks.IndexOf(blockID) == -1 {
			return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
		}
		if !confirmed {
			return ErrConfirmationRequired
		}
		sc.Blocks, _ = sc.Blocks.Remove(blockID)
		return nil
	})
	return err
}

// MoveBlock 将区块与相邻区块交换位置
// 边界移动和未知区块为空操作,返回 moved=false 且不写仓储
func (s *Store) MoveBlock(ctx context.Context, scheduleID, blockID string, dir model.Direction) (model.BlockList, bool, error) {
	if !dir.IsValid() {
		return nil, false, model.ErrInvalidDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(scheduleID)
	if idx == -1 {
		return nil, false, fmt.Errorf("%w: %s", ErrScheduleNotFound, scheduleID)
	}
	blocks, moved := s.schedules[idx].Blocks.Move(blockID, dir)
	if !moved {
		return blocks, false, nil
	}

	updated, err := s.mutateLocked(ctx, scheduleID, func(sc *model.Schedule) error {
		sc.Blocks = blocks
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated.Blocks, true, nil
}

// customFields 校验自定义字段的类型和 ID 唯一性
func customFields(fields []model.Field) ([]model.Field, error) {
	out := make([]model.Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.ID) == "" || strings.TrimSpace(f.Label) == "" {
			return nil, model.ErrItemIDAndName
		}
		if seen[f.ID] {
			return nil, model.ErrDuplicateItem
		}
		seen[f.ID] = true
		if f.Type == "" {
			f.Type = model.FieldTypeText
		}
		if !f.Type.IsValid() {
			return nil, model.ErrInvalidFieldType
		}
		if strings.TrimSpace(f.Validation) == "" {
			f.Validation = "{}"
		}
		out = append(out, f.Clone())
	}
	return out, nil
}
