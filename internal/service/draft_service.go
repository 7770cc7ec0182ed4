package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mautops/survey-gin/internal/editor"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrDraftNotFound 草稿不存在或已过期
var ErrDraftNotFound = errors.New("draft not found")

// DefaultDraftTTL 草稿默认闲置过期时间
const DefaultDraftTTL = 30 * time.Minute

// DraftService 区块草稿服务接口
type DraftService interface {
	Open(scheduleID string) (*editor.Draft, error)
	OpenForBlock(scheduleID, blockID string) (*editor.Draft, error)
	Get(id string) (*editor.Draft, error)
	Apply(id string, fn func(d *editor.Draft) error) (*editor.Draft, error)
	Discard(id string) error
	Commit(ctx context.Context, id string) (model.Block, error)
	Len() int
	Sweep() int
	StartJanitor(ctx context.Context, interval time.Duration)
}

// draftCacheEntry 草稿缓存条目,mu 串行化同一草稿上的操作
type draftCacheEntry struct {
	mu        sync.Mutex
	draft     *editor.Draft
	expiresAt time.Time
}

// draftService 草稿服务实现,草稿只保存在内存中
type draftService struct {
	blockSvc BlockService
	ids      store.IDGenerator
	cache    *sync.Map
	ttl      time.Duration
}

// NewDraftService 创建草稿服务
func NewDraftService(blockSvc BlockService, ttl time.Duration) DraftService {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &draftService{
		blockSvc: blockSvc,
		ids:      store.UUIDGenerator{},
		cache:    &sync.Map{},
		ttl:      ttl,
	}
}

// Open 为调查计划新建区块草稿
func (s *draftService) Open(scheduleID string) (*editor.Draft, error) {
	if _, err := s.blockSvc.List(scheduleID); err != nil {
		return nil, err
	}
	d := editor.New(s.ids.NewID("draft"), scheduleID)
	s.put(d)
	return d.Clone(), nil
}

// OpenForBlock 基于已有区块创建编辑草稿
func (s *draftService) OpenForBlock(scheduleID, blockID string) (*editor.Draft, error) {
	block, err := s.blockSvc.Get(scheduleID, blockID)
	if err != nil {
		return nil, err
	}
	d := editor.FromBlock(s.ids.NewID("draft"), scheduleID, block)
	s.put(d)
	return d.Clone(), nil
}

// Get 获取草稿副本
func (s *draftService) Get(id string) (*editor.Draft, error) {
	var out *editor.Draft
	err := s.withDraft(id, func(entry *draftCacheEntry) error {
		out = entry.draft.Clone()
		return nil
	})
	return out, err
}

// Apply 在草稿上执行一次编辑操作,失败时草稿保持不变
func (s *draftService) Apply(id string, fn func(d *editor.Draft) error) (*editor.Draft, error) {
	var out *editor.Draft
	err := s.withDraft(id, func(entry *draftCacheEntry) error {
		working := entry.draft.Clone()
		if err := fn(working); err != nil {
			return err
		}
		entry.draft = working
		out = working.Clone()
		return nil
	})
	return out, err
}

// Discard 放弃草稿
func (s *draftService) Discard(id string) error {
	if _, loaded := s.cache.LoadAndDelete(id); !loaded {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return nil
}

// Commit 保存草稿
// 新区块调用创建,编辑草稿按原 ID 更新;保存失败时草稿保留以便修正后重试
func (s *draftService) Commit(ctx context.Context, id string) (model.Block, error) {
	var block model.Block
	err := s.withDraft(id, func(entry *draftCacheEntry) error {
		d := entry.draft
		if err := d.Ready(); err != nil {
			return err
		}

		metadata := d.Metadata
		metadata.Fields = d.Fields()

		var err error
		if d.IsEdit() {
			block, err = s.blockSvc.Update(ctx, d.ScheduleID, d.BlockID, metadata)
		} else {
			block, err = s.blockSvc.Create(ctx, d.ScheduleID, store.AddBlockRequest{
				Draft:      metadata,
				Mode:       d.Mode,
				TemplateID: d.TemplateID,
			})
		}
		if err != nil {
			return err
		}

		d.MarkSaved()
		s.cache.Delete(id)
		return nil
	})
	return block, err
}

// Len 当前草稿数量
func (s *draftService) Len() int {
	n := 0
	s.cache.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Sweep 清理过期草稿,返回清理数量
func (s *draftService) Sweep() int {
	now := time.Now()
	removed := 0
	s.cache.Range(func(key, value interface{}) bool {
		entry := value.(*draftCacheEntry)
		entry.mu.Lock()
		expired := now.After(entry.expiresAt)
		entry.mu.Unlock()
		if expired {
			s.cache.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// StartJanitor 定期清理过期草稿,ctx 取消后退出
func (s *draftService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logrus.WithField("count", n).Debug("expired block drafts removed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// put 写入缓存
func (s *draftService) put(d *editor.Draft) {
	s.cache.Store(d.ID, &draftCacheEntry{
		draft:     d,
		expiresAt: time.Now().Add(s.ttl),
	})
}

// withDraft 持有草稿锁执行 fn,访问会顺延过期时间
func (s *draftService) withDraft(id string, fn func(entry *draftCacheEntry) error) error {
	val, found := s.cache.Load(id)
	if !found {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	entry := val.(*draftCacheEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if time.Now().After(entry.expiresAt) {
		// 草稿已过期，删除
		s.cache.Delete(id)
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	// 等锁期间草稿可能已提交或被放弃
	if current, ok := s.cache.Load(id); !ok || current != entry {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}

	entry.expiresAt = time.Now().Add(s.ttl)
	return fn(entry)
}
