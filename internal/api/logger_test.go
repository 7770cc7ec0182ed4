package api

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mautops/survey-gin/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLoggerFromConfig_JSON 测试 JSON 格式及默认字段
func TestNewLoggerFromConfig_JSON(t *testing.T) {
	logger, err := NewLoggerFromConfig(&config.LogConfig{Level: "warn", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithField("schedule_id", "schedule-1").Warn("schedule deleted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "schedule-1", entry["schedule_id"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "schedule deleted", entry["msg"])
}

// TestNewLoggerFromConfig_File 测试文件输出
func TestNewLoggerFromConfig_File(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLoggerFromConfig(&config.LogConfig{Level: "info", Format: "text", Output: "file", Dir: dir})
	require.NoError(t, err)
	logger.Info("hello")

	matches, err := filepath.Glob(filepath.Join(dir, ServiceName+".log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

// TestNewLoggerFromConfig_InvalidLevel 测试非法级别回退为 info
func TestNewLoggerFromConfig_InvalidLevel(t *testing.T) {
	logger, err := NewLoggerFromConfig(&config.LogConfig{Level: "verbose", Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

// TestSetLoggerLevel 测试运行时调整级别
func TestSetLoggerLevel(t *testing.T) {
	original := GetLogger().GetLevel()
	defer GetLogger().SetLevel(original)

	require.NoError(t, SetLoggerLevel("error"))
	assert.Equal(t, logrus.ErrorLevel, GetLogger().GetLevel())
	assert.Error(t, SetLoggerLevel("loud"))
	assert.Equal(t, logrus.ErrorLevel, GetLogger().GetLevel())
}
