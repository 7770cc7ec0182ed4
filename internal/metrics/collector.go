package metrics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Counter 返回当前数量
type Counter func() int

// Collector 指标收集器
type Collector struct {
	db        *gorm.DB
	schedules Counter
	drafts    Counter
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCollector 创建指标收集器,db 为 nil 时(内存存储)跳过连接池指标
func NewCollector(db *gorm.DB, schedules, drafts Counter, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:        db,
		schedules: schedules,
		drafts:    drafts,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// Collect 立即收集一次
func (c *Collector) Collect() {
	if c.db != nil {
		_ = UpdateDatabaseConnections(c.db)
	}
	if c.schedules != nil {
		SetSchedules(c.schedules())
	}
	if c.drafts != nil {
		SetActiveDrafts(c.drafts())
	}
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	c.Collect()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Collect()
		}
	}
}
