package model

import (
	"errors"
	"time"
)

// ScheduleModel 调查计划数据模型
type ScheduleModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Year      string    `gorm:"type:varchar(32);not null;index"`
	Sector    string    `gorm:"type:varchar(64);index"`
	IsActive  bool      `gorm:"not null"`
	Position  int       `gorm:"not null;default:0;index"` // 列表中的顺序
	Data      []byte    `gorm:"type:jsonb;not null"`      // 序列化后的 Schedule 对象
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	UpdatedBy string    `gorm:"type:varchar(64)"`
}

// TableName 指定表名
func (ScheduleModel) TableName() string {
	return "schedules"
}

// Validate 验证调查计划模型
func (sm *ScheduleModel) Validate() error {
	if sm.ID == "" {
		return errors.New("schedule ID is required")
	}
	if sm.Name == "" {
		return errors.New("schedule name is required")
	}
	if len(sm.Data) == 0 {
		return errors.New("schedule data is required")
	}
	return nil
}
