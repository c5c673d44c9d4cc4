package models

import "time"

// SyncLog is the append-only audit trail: one row per entity kind per
// sync invocation. Rows are never updated or deleted.
type SyncLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RunId       string    `gorm:"index;size:36" json:"run_id"`
	EntityKind  string    `gorm:"index;size:50;not null" json:"entity_kind"`
	RecordCount int       `json:"record_count"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	TriggeredBy string    `gorm:"size:20" json:"triggered_by"`
	RanAt       time.Time `gorm:"autoCreateTime;index" json:"ran_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
