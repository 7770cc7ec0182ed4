// Package store 持有调查计划的内存有序集合
//
// 所有变更先在副本上完成并写入仓储,成功后才替换内存状态,
// 因此仓储失败时集合保持不变。对外返回的对象均为深拷贝。
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"golang.org/x/text/cases"
)

var (
	// ErrScheduleNotFound 调查计划不存在
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrBlockNotFound 区块不存在
	ErrBlockNotFound = errors.New("block not found")
	// ErrConfirmationRequired 删除操作需要确认
	ErrConfirmationRequired = errors.New("confirmation required")
)

// IDGenerator 生成带前缀的唯一 ID
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator 基于 UUID 的 ID 生成器
type UUIDGenerator struct{}

// NewID 返回 prefix-<uuid>
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// TemplateSource 模板来源
type TemplateSource interface {
	Get(id string) (model.Template, error)
}

// Option Store 配置项
type Option func(*Store)

// WithIDGenerator 替换 ID 生成器
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// Store 调查计划存储
type Store struct {
	mu        sync.RWMutex
	schedules []*model.Schedule
	positions map[string]int
	next      int

	repo      repository.ScheduleRepository
	templates TemplateSource
	ids       IDGenerator
}

// New 创建存储,需调用 Load 或 LoadOrSeed 加载数据
func New(repo repository.ScheduleRepository, templates TemplateSource, opts ...Option) *Store {
	s := &Store{
		schedules: make([]*model.Schedule, 0),
		positions: make(map[string]int),
		repo:      repo,
		templates: templates,
		ids:       UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 从仓储加载全部调查计划,替换当前内存状态
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = loaded
	s.positions = make(map[string]int, len(loaded))
	for i, sc := range loaded {
		s.positions[sc.ID] = i
	}
	s.next = len(loaded)
	return nil
}

// LoadOrSeed 加载数据,仓储为空时写入初始数据
func (s *Store) LoadOrSeed(ctx context.Context, seed []*model.Schedule) (seeded bool, err error) {
	if err := s.Load(ctx); err != nil {
		return false, err
	}
	if s.Len() > 0 || len(seed) == 0 {
		return false, nil
	}
	if err := s.Replace(ctx, seed); err != nil {
		return false, fmt.Errorf("failed to seed schedules: %w", err)
	}
	return true, nil
}

// Len 调查计划数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedules)
}

// List 按顺序返回所有调查计划
func (s *Store) List() []*model.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Schedule, len(s.schedules))
	for i, sc := range s.schedules {
		out[i] = sc.Clone()
	}
	return out
}

// Search 名称、描述或行业包含关键字(不区分大小写)的调查计划
func (s *Store) Search(term string) []*model.Schedule {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Caser 有状态,不能在 goroutine 之间共享
	fold := cases.Fold()
	folded := fold.String(term)
	out := make([]*model.Schedule, 0)
	for _, sc := range s.schedules {
		if sc.Matches(fold.String, folded) {
			out = append(out, sc.Clone())
		}
	}
	return out
}

// Get 根据 ID 获取调查计划
func (s *Store) Get(id string) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return s.schedules[idx].Clone(), nil
}

// Add 新增调查计划,名称和年份必填
func (s *Store) Add(ctx context.Context, draft model.ScheduleDraft) (*model.Schedule, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc := &model.Schedule{
		ID:          s.ids.NewID("schedule"),
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		Sector:      draft.Sector,
		Year:        strings.TrimSpace(draft.Year),
		IsActive:    draft.IsActive,
		Blocks:      model.BlockList{},
	}
	if err := s.appendLocked(ctx, sc); err != nil {
		return nil, err
	}
	return sc.Clone(), nil
}

// Update 按 ID 原地替换调查计划属性,区块保持不变
func (s *Store) Update(ctx context.Context, id string, draft model.ScheduleDraft) (*model.Schedule, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutateLocked(ctx, id, func(sc *model.Schedule) error {
		sc.Name = strings.TrimSpace(draft.Name)
		sc.Description = draft.Description
		sc.Sector = draft.Sector
		sc.Year = strings.TrimSpace(draft.Year)
		sc.IsActive = draft.IsActive
		return nil
	})
}

// Delete 删除调查计划,未确认时返回 ErrConfirmationRequired
func (s *Store) Delete(ctx context.Context, id string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	out := make([]*model.Schedule, 0, len(s.schedules)-1)
	out = append(out, s.schedules[:idx]...)
	s.schedules = append(out, s.schedules[idx+1:]...)
	delete(s.positions, id)
	return nil
}

// Clone 复制调查计划
// 新计划及其每个区块都分配新 ID,名称追加 " (Copy)",且处于停用状态
func (s *Store) Clone(ctx context.Context, id string) (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}

	cloned := s.schedules[idx].Clone()
	cloned.ID = s.ids.NewID("schedule")
	cloned.Name = cloned.Name + " (Copy)"
	cloned.IsActive = false
	for i := range cloned.Blocks {
		cloned.Blocks[i].ID = s.ids.NewID("block")
	}

	if err := s.appendLocked(ctx, cloned); err != nil {
		return nil, err
	}
	return cloned.Clone(), nil
}

// Replace 用给定调查计划整体替换集合,用于初始化和备份恢复
// 先校验全部内容,再由仓储一次性替换,任一步失败时集合和仓储都保持不变
func (s *Store) Replace(ctx context.Context, schedules []*model.Schedule) error {
	next, err := normalizeSchedules(schedules)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return fmt.Errorf("failed to replace schedules: %w", err)
	}

	positions := make(map[string]int, len(next))
	for i, sc := range next {
		positions[sc.ID] = i
	}
	s.schedules = next
	s.positions = positions
	s.next = len(next)
	return nil
}

// normalizeSchedules 校验并复制待替换的集合
func normalizeSchedules(schedules []*model.Schedule) ([]*model.Schedule, error) {
	out := make([]*model.Schedule, 0, len(schedules))
	ids := make(map[string]bool, len(schedules))
	for _, sc := range schedules {
		if sc == nil || strings.TrimSpace(sc.ID) == "" || ids[sc.ID] {
			return nil, model.ErrInvalidScheduleID
		}
		ids[sc.ID] = true

		draft := model.ScheduleDraft{Name: sc.Name, Sector: sc.Sector, Year: sc.Year}
		if err := draft.Validate(); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", sc.ID, err)
		}

		c := sc.Clone()
		if c.Blocks == nil {
			c.Blocks = model.BlockList{}
		}
		blockIDs := make(map[string]bool, len(c.Blocks))
		for i, b := range c.Blocks {
			if strings.TrimSpace(b.ID) == "" || blockIDs[b.ID] {
				return nil, fmt.Errorf("schedule %s: %w", sc.ID, model.ErrInvalidBlockID)
			}
			blockIDs[b.ID] = true
			if err := (model.BlockDraft{Name: b.Name}).Validate(); err != nil {
				return nil, fmt.Errorf("schedule %s block %s: %w", sc.ID, b.ID, err)
			}
			fields, err := customFields(b.Fields)
			if err != nil {
				return nil, fmt.Errorf("schedule %s block %s: %w", sc.ID, b.ID, err)
			}
			c.Blocks[i].Fields = fields
		}
		out = append(out, c)
	}
	return out, nil
}

// indexOf 调用方需持有锁
func (s *Store) indexOf(id string) int {
	for i, sc := range s.schedules {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

// appendLocked 持久化并追加到末尾,调用方需持有写锁
func (s *Store) appendLocked(ctx context.Context, sc *model.Schedule) error {
	position := s.next
	if err := s.repo.Save(ctx, sc, position); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	s.schedules = append(s.schedules, sc)
	s.positions[sc.ID] = position
	s.next++
	return nil
}

// mutateLocked 在副本上执行变更并持久化,成功后替换内存中的对象
func (s *Store) mutateLocked(ctx context.Context, id string, fn func(sc *model.Schedule) error) (*model.Schedule, error) {
	idx := s.indexOf(id)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}

	updated := s.schedules[idx].Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, updated, s.positions[id]); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	s.schedules[idx] = updated
	return updated.Clone(), nil
}
