package api_test

import (
	"net/http"
	"testing"

	"github.com/mautops/survey-gin/internal/api"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackupAPI 测试备份创建、恢复与删除
func TestBackupAPI(t *testing.T) {
	s := setupServer(t)
	before := s.store.Len()

	w, env := s.do(t, http.MethodPost, "/api/v1/backups", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var info service.BackupInfo
	decode(t, env, &info)
	assert.NotEmpty(t, info.Filename)

	w, env = s.do(t, http.MethodGet, "/api/v1/backups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Total)

	// 备份后删除一个调查计划,恢复后数量复原
	w, _ = s.do(t, http.MethodDelete, "/api/v1/schedules/"+asiID+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, before-1, s.store.Len())

	w, env = s.do(t, http.MethodPost, "/api/v1/backups/"+info.Filename+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var restored api.RestoreResponse
	decode(t, env, &restored)
	assert.Equal(t, before, restored.Schedules)
	assert.Equal(t, before, s.store.Len())

	w, env = s.do(t, http.MethodPost, "/api/v1/backups/not-a-backup.txt/restore", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalid_backup_name", env.Key)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/backups/"+info.Filename, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodDelete, "/api/v1/backups/"+info.Filename, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.backup_not_found", env.Key)
}
