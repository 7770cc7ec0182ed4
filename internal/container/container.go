package container

import (
	"context"
	"fmt"
	"time"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/config"
	"github.com/mautops/survey-gin/internal/database"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、存储、服务等
type Container struct {
	cfg             *config.Config
	db              *gorm.DB
	store           *store.Store
	catalog         *catalog.Catalog
	hub             *websocket.Hub
	auditLogService service.AuditLogService
	scheduleService service.ScheduleService
	blockService    service.BlockService
	draftService    service.DraftService
	templateService service.TemplateService
	backupService   *service.BackupService
	backupScheduler *service.BackupScheduler
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{cfg: cfg}

	// 1. 初始化数据库(带重试机制),内存存储不需要数据库
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	var repo repository.ScheduleRepository
	if cfg.UsesDatabase() {
		db, err := database.ConnectWithRetry(cfg.Storage.Driver, cfg.Database, 3, time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.db = db

		// 执行数据库迁移
		if err := database.Migrate(db); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		repo = repository.NewScheduleRepository(db)
		c.auditLogService = service.NewAuditLogService(repository.NewAuditLogRepository(db))
	} else {
		repo = repository.NewMemoryScheduleRepository()
	}

	// 2. 加载模板目录
	cat, err := catalog.Default()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load template catalog: %w", err)
	}
	c.catalog = cat

	// 3. 加载调查计划
	c.store = store.New(repo, cat)
	if err := c.loadStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	// 4. 初始化服务
	c.hub = websocket.NewHub()
	c.scheduleService = service.NewScheduleService(c.store, c.auditLogService, c.hub)
	c.blockService = service.NewBlockService(c.store, c.auditLogService, c.hub)
	c.draftService = service.NewDraftService(c.blockService, cfg.Draft.TTL)
	c.templateService = service.NewTemplateService(cat)

	// 5. 初始化备份服务
	c.backupService = service.NewBackupService(c.store, c.hub, cfg.Backup.Dir, cfg.Storage.Driver)
	c.backupService.SetCompression(cfg.Backup.Compression)
	if cfg.Backup.Schedule {
		c.backupScheduler = service.NewBackupScheduler(c.backupService, &service.BackupScheduleConfig{
			Interval:      cfg.Backup.Interval,
			RetentionDays: cfg.Backup.RetentionDays,
			RunOnStart:    cfg.Backup.RunOnStart,
		})
	}

	return c, nil
}

// loadStore 从仓储加载调查计划,配置允许时为空仓储写入初始数据
func (c *Container) loadStore(ctx context.Context) error {
	if !c.cfg.Storage.Seed {
		if err := c.store.Load(ctx); err != nil {
			return fmt.Errorf("failed to load schedules: %w", err)
		}
		return nil
	}

	seed, err := catalog.SeedSchedules()
	if err != nil {
		return fmt.Errorf("failed to load seed schedules: %w", err)
	}
	seeded, err := c.store.LoadOrSeed(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"driver":    c.cfg.Storage.Driver,
		"schedules": c.store.Len(),
		"seeded":    seeded,
	}).Info("schedules loaded")
	return nil
}

// Config 获取配置
func (c *Container) Config() *config.Config {
	return c.cfg
}

// DB 获取数据库连接,内存存储时为 nil
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Store 获取调查计划存储
func (c *Container) Store() *store.Store {
	return c.store
}

// Catalog 获取模板目录
func (c *Container) Catalog() *catalog.Catalog {
	return c.catalog
}

// Hub 获取 WebSocket Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// ScheduleService 获取调查计划服务
func (c *Container) ScheduleService() service.ScheduleService {
	return c.scheduleService
}

// BlockService 获取区块服务
func (c *Container) BlockService() service.BlockService {
	return c.blockService
}

// DraftService 获取区块草稿服务
func (c *Container) DraftService() service.DraftService {
	return c.draftService
}

// TemplateService 获取模板服务
func (c *Container) TemplateService() service.TemplateService {
	return c.templateService
}

// BackupService 获取备份服务
func (c *Container) BackupService() *service.BackupService {
	return c.backupService
}

// BackupScheduler 获取备份调度器,未启用定时备份时为 nil
func (c *Container) BackupScheduler() *service.BackupScheduler {
	return c.backupScheduler
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.backupScheduler != nil {
		c.backupScheduler.Stop()
	}
	database.Close(c.db)
	return nil
}
