package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mautops/survey-gin/internal/model"
	"gorm.io/gorm"
)

// ScheduleRepository 调查计划仓储接口
// Store 通过它加载初始数据并持久化每次变更
type ScheduleRepository interface {
	Load(ctx context.Context) ([]*model.Schedule, error)
	Save(ctx context.Context, schedule *model.Schedule, position int) error
	Delete(ctx context.Context, id string) error
	// ReplaceAll 用给定集合整体替换,失败时不留下部分结果
	ReplaceAll(ctx context.Context, schedules []*model.Schedule) error
}

// scheduleRepository 基于 GORM 的调查计划仓储实现
type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository 创建调查计划仓储
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// Load 按列表顺序加载所有调查计划
func (r *scheduleRepository) Load(ctx context.Context) ([]*model.Schedule, error) {
	var models []model.ScheduleModel
	if err := r.db.WithContext(ctx).Order("position ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	schedules := make([]*model.Schedule, 0, len(models))
	for _, m := range models {
		var s model.Schedule
		if err := json.Unmarshal(m.Data, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule %s: %w", m.ID, err)
		}
		if s.Blocks == nil {
			s.Blocks = model.BlockList{}
		}
		schedules = append(schedules, &s)
	}
	return schedules, nil
}

// Save 保存调查计划,不存在时创建
func (r *scheduleRepository) Save(ctx context.Context, schedule *model.Schedule, position int) error {
	sm, err := toScheduleModel(ctx, schedule, position)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ScheduleModel
		err := tx.Where("id = ?", schedule.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(sm).Error
		}
		if err != nil {
			return err
		}
		sm.CreatedAt = existing.CreatedAt
		return tx.Save(sm).Error
	})
}

// ReplaceAll 在一个事务中删除全部行并写入新集合,保留已有行的创建时间
func (r *scheduleRepository) ReplaceAll(ctx context.Context, schedules []*model.Schedule) error {
	models := make([]*model.ScheduleModel, 0, len(schedules))
	for i, schedule := range schedules {
		sm, err := toScheduleModel(ctx, schedule, i)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", schedule.ID, err)
		}
		models = append(models, sm)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.ScheduleModel
		if err := tx.Select("id", "created_at").Find(&existing).Error; err != nil {
			return err
		}
		created := make(map[string]time.Time, len(existing))
		for _, m := range existing {
			created[m.ID] = m.CreatedAt
		}

		if err := tx.Where("1 = 1").Delete(&model.ScheduleModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear schedules: %w", err)
		}
		for _, sm := range models {
			if t, ok := created[sm.ID]; ok {
				sm.CreatedAt = t
			}
			if err := tx.Create(sm).Error; err != nil {
				return fmt.Errorf("failed to save schedule %s: %w", sm.ID, err)
			}
		}
		return nil
	})
}

// toScheduleModel 序列化调查计划并校验
func toScheduleModel(ctx context.Context, schedule *model.Schedule, position int) (*model.ScheduleModel, error) {
	data, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	now := time.Now()
	sm := &model.ScheduleModel{
		ID:        schedule.ID,
		Name:      schedule.Name,
		Year:      schedule.Year,
		Sector:    string(schedule.Sector),
		IsActive:  schedule.IsActive,
		Position:  position,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
		UpdatedBy: model.StringFromContext(ctx, model.OperatorContextKey),
	}
	if err := sm.Validate(); err != nil {
		return nil, err
	}
	return sm, nil
}

// Delete 删除调查计划
func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ScheduleModel{}).Error
}
