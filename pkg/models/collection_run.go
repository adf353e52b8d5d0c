package models

import (
	"time"

	"gorm.io/gorm"
)

// CollectionRun is the audit record for one collector invocation. Only run
// metadata lands in the database; fetched histories and extracted rows are
// never persisted.
type CollectionRun struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	RunID        string         `gorm:"type:varchar(36);index" json:"run_id"`
	Host         string         `gorm:"type:varchar(255);not null" json:"host"`
	ADOM         string         `gorm:"type:varchar(255)" json:"adom"`
	Platform     string         `gorm:"type:varchar(255);index" json:"platform"`
	Script       string         `gorm:"type:varchar(255);index;not null" json:"script"`
	DeviceCount  int            `json:"device_count"`
	RowCount     int            `json:"row_count"`
	OutputPath   string         `gorm:"type:text" json:"output_path,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Success      bool           `gorm:"index" json:"success"`
}
