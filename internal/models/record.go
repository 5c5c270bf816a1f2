package models

import "time"

// Record is a typed quality entry (calibration log, deviation, CAPA, ...).
type Record struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"size:100" json:"type"`
	Name        string    `gorm:"size:200" json:"name"`
	Detail      string    `gorm:"type:text" json:"detail"`
	User        string    `gorm:"size:100" json:"user"` // Username of the author at creation time
	SubmittedOn time.Time `gorm:"autoCreateTime;not null;index" json:"submitted_on"`
}

// TableName overrides the default pluralization
func (Record) TableName() string {
	return "record"
}
