package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/api"
	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/config"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const asiID = "schedule-asi-2023-24"

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope 统一响应
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Key     string          `json:"key"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
	Total   int             `json:"total"`
}

// testServer 测试用路由及其依赖
type testServer struct {
	router *gin.Engine
	store  *store.Store
	cfg    *config.Config
}

// setupServer 创建使用内存存储的完整路由
func setupServer(t *testing.T, mutate ...func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.RateLimit.RPS = 0
	cfg.Backup.Dir = t.TempDir()
	for _, fn := range mutate {
		fn(cfg)
	}

	templates := catalog.MustDefault()
	st := store.New(repository.NewMemoryScheduleRepository(), templates)
	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	_, err = st.LoadOrSeed(context.Background(), seed)
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.AuditLogModel{}))
	audit := service.NewAuditLogService(repository.NewAuditLogRepository(db))

	blocks := service.NewBlockService(st, audit, nil)
	router := api.SetupRoutes(api.Dependencies{
		Config:    cfg,
		Schedules: service.NewScheduleService(st, audit, nil),
		Blocks:    blocks,
		Drafts:    service.NewDraftService(blocks, service.DefaultDraftTTL),
		Templates: service.NewTemplateService(templates),
		Backups:   service.NewBackupService(st, nil, cfg.Backup.Dir, config.DriverMemory),
		Count:     st.Len,
	})
	return &testServer{router: router, store: st, cfg: cfg}
}

// do 发送请求并解析统一响应
func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// decode 解析响应中的 data
func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
