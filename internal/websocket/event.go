package websocket

import (
	"encoding/json"
	"time"
)

// 变更事件类型
const (
	EventScheduleCreated = "schedule.created"
	EventScheduleUpdated = "schedule.updated"
	EventScheduleDeleted = "schedule.deleted"
	EventScheduleCloned  = "schedule.cloned"
	EventBlockCreated    = "block.created"
	EventBlockUpdated    = "block.updated"
	EventBlockDeleted    = "block.deleted"
	EventBlockMoved      = "block.moved"
	EventSchedulesReset  = "schedules.restored"
)

// Event 推送给编辑器的变更事件
type Event struct {
	Type       string      `json:"type"`
	ScheduleID string      `json:"schedule_id,omitempty"`
	BlockID    string      `json:"block_id,omitempty"`
	Operator   string      `json:"operator,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       interface{} `json:"data,omitempty"`
}

// Encode 序列化事件
func (e Event) Encode() ([]byte, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return json.Marshal(e)
}
