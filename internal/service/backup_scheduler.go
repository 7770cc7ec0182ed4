package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// BackupScheduler 备份调度器
type BackupScheduler struct {
	backupService *BackupService
	config        *BackupScheduleConfig
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// BackupScheduleConfig 备份计划配置
type BackupScheduleConfig struct {
	Interval      time.Duration // 备份间隔
	RetentionDays int           // 备份保留天数,0 表示不清理
	RunOnStart    bool          // 启动时立即备份一次
}

// NewBackupScheduler 创建备份调度器
func NewBackupScheduler(backupService *BackupService, config *BackupScheduleConfig) *BackupScheduler {
	if config == nil {
		config = &BackupScheduleConfig{
			Interval:      24 * time.Hour,
			RetentionDays: 30,
		}
	}
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}

	return &BackupScheduler{
		backupService: backupService,
		config:        config,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动备份调度器
func (s *BackupScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop 停止备份调度器
func (s *BackupScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Config 获取备份配置
func (s *BackupScheduler) Config() *BackupScheduleConfig {
	return s.config
}

// run 按间隔执行备份和清理
func (s *BackupScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if s.config.RunOnStart {
		s.performBackup(ctx)
	}

	for {
		select {
		case <-ticker.C:
			s.performBackup(ctx)
			s.CleanupOldBackups(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// performBackup 执行备份
func (s *BackupScheduler) performBackup(ctx context.Context) {
	backupPath, err := s.backupService.CreateBackup(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to create scheduled backup")
		return
	}
	logrus.WithField("path", backupPath).Info("scheduled backup created")
}

// CleanupOldBackups 清理超过保留期的备份,返回删除数量
func (s *BackupScheduler) CleanupOldBackups(ctx context.Context) int {
	if s.config.RetentionDays <= 0 {
		return 0
	}

	backups, err := s.backupService.ListBackups(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list backups")
		return 0
	}

	retention := time.Duration(s.config.RetentionDays) * 24 * time.Hour
	now := time.Now()
	removed := 0
	for _, backup := range backups {
		if now.Sub(backup.CreatedAt) <= retention {
			continue
		}
		if err := s.backupService.DeleteBackup(ctx, backup.Filename); err != nil {
			logrus.WithField("filename", backup.Filename).WithError(err).Warn("failed to delete old backup")
			continue
		}
		logrus.WithField("filename", backup.Filename).Info("old backup deleted")
		removed++
	}
	return removed
}
