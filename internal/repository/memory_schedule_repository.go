package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/mautops/survey-gin/internal/model"
)

// MemoryScheduleRepository 内存调查计划仓储,用于测试和无数据库运行
type MemoryScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[string]*model.Schedule
	positions map[string]int
}

// NewMemoryScheduleRepository 创建内存仓储,可选传入初始数据
func NewMemoryScheduleRepository(seed ...*model.Schedule) *MemoryScheduleRepository {
	r := &MemoryScheduleRepository{
		schedules: make(map[string]*model.Schedule),
		positions: make(map[string]int),
	}
	for i, s := range seed {
		r.schedules[s.ID] = s.Clone()
		r.positions[s.ID] = i
	}
	return r
}

// Load 按顺序返回所有调查计划的副本
func (r *MemoryScheduleRepository) Load(ctx context.Context) ([]*model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.positions[out[i].ID] < r.positions[out[j].ID]
	})
	return out, nil
}

// Save 保存调查计划副本
func (r *MemoryScheduleRepository) Save(ctx context.Context, schedule *model.Schedule, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[schedule.ID] = schedule.Clone()
	r.positions[schedule.ID] = position
	return nil
}

// Delete 删除调查计划
func (r *MemoryScheduleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schedules, id)
	delete(r.positions, id)
	return nil
}

// ReplaceAll 整体替换为给定集合的副本
func (r *MemoryScheduleRepository) ReplaceAll(ctx context.Context, schedules []*model.Schedule) error {
	next := make(map[string]*model.Schedule, len(schedules))
	positions := make(map[string]int, len(schedules))
	for i, s := range schedules {
		next[s.ID] = s.Clone()
		positions[s.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules = next
	r.positions = positions
	return nil
}

// Len 返回已保存的调查计划数量
func (r *MemoryScheduleRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schedules)
}
