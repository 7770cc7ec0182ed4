package model

import (
	"errors"
	"time"
)

// 审计资源类型
const (
	ResourceSchedule = "schedule"
	ResourceBlock    = "block"
)

// AuditLogModel 审计日志数据模型
type AuditLogModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	Operator     string    `gorm:"type:varchar(64);not null;index"` // 来自 X-Operator 请求头,缺省为 anonymous
	Action       string    `gorm:"type:varchar(64);not null;index"` // create/update/delete/clone/move
	ResourceType string    `gorm:"type:varchar(32);not null"`      // schedule/block
	ResourceID   string    `gorm:"type:varchar(64);not null;index"`
	ScheduleID   string    `gorm:"type:varchar(64);index"` // 区块操作所属的调查计划
	RequestID    string    `gorm:"type:varchar(64)"`
	IP           string    `gorm:"type:varchar(45)"`
	Details      []byte    `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计日志模型
func (alm *AuditLogModel) Validate() error {
	switch {
	case alm.ID == "":
		return errors.New("audit log ID is required")
	case alm.Action == "":
		return errors.New("action is required")
	case alm.ResourceType != ResourceSchedule && alm.ResourceType != ResourceBlock:
		return errors.New("resource type must be schedule or block")
	case alm.ResourceID == "":
		return errors.New("resource ID is required")
	}
	return nil
}
