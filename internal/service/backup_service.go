package service

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/mautops/survey-gin/internal/websocket"
)

// snapshotEntry 压缩包内的快照文件名
const snapshotEntry = "schedules.json"

// snapshotVersion 快照格式版本
const snapshotVersion = 1

var (
	// ErrBackupNotFound 备份文件不存在
	ErrBackupNotFound = errors.New("backup not found")
	// ErrInvalidBackupName 备份文件名非法
	ErrInvalidBackupName = errors.New("invalid backup filename")
)

// BackupService 备份服务,备份内容为调查计划集合的 JSON 快照
type BackupService struct {
	store       *store.Store
	publisher   Publisher
	backupDir   string
	label       string
	compression bool

	// create 打开备份文件
	create func(path string) (io.WriteCloser, error)
}

// BackupInfo 备份信息
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Storage   string    `json:"storage"`
}

// Snapshot 调查计划快照
type Snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Schedules []*model.Schedule `json:"schedules"`
}

// NewBackupService 创建备份服务
// label 为存储驱动名,写入文件名便于区分来源
func NewBackupService(st *store.Store, publisher Publisher, backupDir, label string) *BackupService {
	// 确保备份目录存在
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		// 如果创建失败，使用临时目录
		backupDir = os.TempDir()
	}
	if label == "" {
		label = "memory"
	}

	return &BackupService{
		store:       st,
		publisher:   publisher,
		backupDir:   backupDir,
		label:       label,
		compression: true, // 默认启用压缩
		create: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}
}

// SetCompression 设置是否压缩
func (s *BackupService) SetCompression(enabled bool) {
	s.compression = enabled
}

// CreateBackup 创建备份,返回备份文件路径
func (s *BackupService) CreateBackup(ctx context.Context) (string, error) {
	// 生成备份文件名
	timestamp := time.Now().Format("20060102_150405.000")
	timestamp = strings.Replace(timestamp, ".", "", 1)
	ext := ".json"
	if s.compression {
		ext = ".tar.gz"
	}
	filename := fmt.Sprintf("backup_%s_%s%s", s.label, timestamp, ext)
	backupPath := filepath.Join(s.backupDir, filename)

	snapshot := Snapshot{
		Version:   snapshotVersion,
		CreatedAt: time.Now(),
		Schedules: s.store.List(),
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	file, err := s.create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	writeErr := s.writeSnapshot(file, data, snapshot.CreatedAt)
	closeErr := file.Close()
	if writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("failed to close backup file: %w", closeErr)
	}
	if writeErr != nil {
		// 不保留写了一半的备份文件
		_ = os.Remove(backupPath)
		return "", writeErr
	}

	return backupPath, nil
}

// writeSnapshot 按压缩设置写入快照
func (s *BackupService) writeSnapshot(w io.Writer, data []byte, modTime time.Time) error {
	if !s.compression {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		return nil
	}

	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)
	header := &tar.Header{
		Name:    snapshotEntry,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := tarWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to close tar: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	return nil
}

// ReadBackup 读取备份快照
func (s *BackupService) ReadBackup(ctx context.Context, filename string) (*Snapshot, error) {
	backupPath, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, filename)
		}
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file

	// 如果是压缩文件，解压
	if strings.HasSuffix(filename, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()

		tarReader := tar.NewReader(gzReader)
		found := false
		for {
			header, err := tarReader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read tar: %w", err)
			}
			if header.Name == snapshotEntry {
				reader = tarReader
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("backup %s has no %s", filename, snapshotEntry)
		}
	}

	var snapshot Snapshot
	if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}

// RestoreBackup 用备份整体替换当前调查计划集合
// 备份内容不合法或写入失败时集合保持不变
func (s *BackupService) RestoreBackup(ctx context.Context, filename string) (int, error) {
	snapshot, err := s.ReadBackup(ctx, filename)
	if err != nil {
		return 0, err
	}

	if err := s.store.Replace(ctx, snapshot.Schedules); err != nil {
		return 0, fmt.Errorf("failed to restore backup: %w", err)
	}

	publish(ctx, s.publisher, websocket.Event{
		Type: websocket.EventSchedulesReset,
		Data: map[string]interface{}{"filename": filename, "schedules": len(snapshot.Schedules)},
	})
	return len(snapshot.Schedules), nil
}

// ListBackups 列出所有备份,按创建时间倒序
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	backups := make([]BackupInfo, 0)

	// 读取备份目录
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// 检查是否是备份文件
		if !isBackupFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
			Storage:   detectStorage(entry.Name()),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// BackupDir 获取备份目录
func (s *BackupService) BackupDir() string {
	return s.backupDir
}

// DeleteBackup 删除备份
func (s *BackupService) DeleteBackup(ctx context.Context, filename string) error {
	backupPath, err := s.resolve(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, filename)
		}
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return nil
}

// resolve 将文件名解析为备份目录内的路径
func (s *BackupService) resolve(filename string) (string, error) {
	// 安全检查：只接受备份目录下的文件名
	if filename == "" || filename != filepath.Base(filename) || !isBackupFile(filename) {
		return "", fmt.Errorf("%w: %s", ErrInvalidBackupName, filename)
	}
	return filepath.Join(s.backupDir, filename), nil
}

// isBackupFile 检查是否是备份文件
func isBackupFile(filename string) bool {
	if !strings.HasPrefix(filename, "backup_") {
		return false
	}
	return strings.HasSuffix(filename, ".tar.gz") || strings.HasSuffix(filename, ".json")
}

// detectStorage 从文件名解析存储驱动
func detectStorage(filename string) string {
	parts := strings.SplitN(strings.TrimPrefix(filename, "backup_"), "_", 2)
	if len(parts) == 2 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}
