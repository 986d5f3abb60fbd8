package models

import (
	"time"

	"gorm.io/datatypes"
)

// ETL run states.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ETLRun records one pipeline execution: when it ran, how it ended, and the
// per-entity row counts as JSON.
type ETLRun struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	RunKey     string         `json:"run_key" gorm:"column:run_key;uniqueIndex;not null"`
	Status     string         `json:"status" gorm:"column:status;not null;index"`
	StartedAt  time.Time      `json:"started_at" gorm:"column:started_at;not null"`
	FinishedAt *time.Time     `json:"finished_at" gorm:"column:finished_at"`
	Error      string         `json:"error,omitempty" gorm:"column:error"`
	Stats      datatypes.JSON `json:"stats,omitempty" gorm:"column:stats;type:jsonb"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (ETLRun) TableName() string { return "etl_runs" }
