package models

import "time"

// BatchRun records the outcome of one scheduled batch invocation per day.
type BatchRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"size:36;not null" json:"run_id"`
	Name       string    `gorm:"uniqueIndex:idx_batch_runs_name_date;size:40;not null" json:"name"`
	RunDate    string    `gorm:"uniqueIndex:idx_batch_runs_name_date;size:10;not null" json:"run_date"`
	Processed  int       `gorm:"not null" json:"processed"`
	Skipped    int       `gorm:"not null" json:"skipped"`
	Failed     int       `gorm:"not null" json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (BatchRun) TableName() string { return "batch_runs" }
