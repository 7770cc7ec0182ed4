package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mautops/survey-gin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 测试默认配置
func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.Seed)
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, 30*time.Minute, cfg.Draft.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.Equal(t, float64(100), cfg.RateLimit.RPS)
	assert.False(t, cfg.Tracing.Enabled)
	assert.NoError(t, cfg.Validate())
}

// TestLoad_FromFile 测试从配置文件加载
func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
storage:
  driver: sqlite
  seed: false
database:
  path: /tmp/survey-test.db
draft:
  ttl: 5m
rate_limit:
  rps: 0
backup:
  run_on_start: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.False(t, cfg.Storage.Seed)
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "/tmp/survey-test.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Minute, cfg.Draft.TTL)
	assert.Equal(t, float64(0), cfg.RateLimit.RPS)
	// 未配置的项使用默认值
	assert.Equal(t, "./backups", cfg.Backup.Dir)
	assert.True(t, cfg.Backup.RunOnStart)
}

// TestLoad_EnvOverride 测试环境变量覆盖
func TestLoad_EnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9090\n"), 0644))
	t.Setenv("APP_SERVER_PORT", "7070")
	t.Setenv("APP_STORAGE_DRIVER", "postgres")

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
}

// TestLoad_InvalidDriver 测试非法存储驱动
func TestLoad_InvalidDriver(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("storage:\n  driver: mongo\n"), 0644))

	_, err := config.Load(configPath)
	assert.Error(t, err)
}

// TestLoad_MissingFile 测试配置文件不存在
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestIsProduction 测试环境判断
func TestIsProduction(t *testing.T) {
	assert.False(t, config.IsProduction(nil))
	assert.True(t, config.IsProduction(&config.Config{Env: "production"}))
	assert.False(t, config.IsProduction(&config.Config{Env: "development"}))
}
