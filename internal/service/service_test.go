package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const asiID = "schedule-asi-2023-24"

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func (p *recordingPublisher) Last() websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// testEnv 服务测试环境
type testEnv struct {
	store     *store.Store
	audit     service.AuditLogService
	publisher *recordingPublisher
	schedules service.ScheduleService
	blocks    service.BlockService
}

// setupTestDBForService 创建带审计表的内存数据库
func setupTestDBForService(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.AuditLogModel{}))
	return db
}

// setupEnv 创建带初始数据的服务
func setupEnv(t *testing.T) *testEnv {
	st := store.New(repository.NewMemoryScheduleRepository(), catalog.MustDefault())
	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	_, err = st.LoadOrSeed(context.Background(), seed)
	require.NoError(t, err)

	db := setupTestDBForService(t)
	audit := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	pub := &recordingPublisher{}

	return &testEnv{
		store:     st,
		audit:     audit,
		publisher: pub,
		schedules: service.NewScheduleService(st, audit, pub),
		blocks:    service.NewBlockService(st, audit, pub),
	}
}

// operatorContext 携带操作人的 context
func operatorContext(operator string) context.Context {
	ctx := context.WithValue(context.Background(), model.OperatorContextKey, operator)
	return context.WithValue(ctx, model.RequestIDContextKey, "req-test")
}
