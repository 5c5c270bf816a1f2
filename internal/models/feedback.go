package models

import "time"

// Feedback is a free-text note left by a logged-in user.
// Rows are append-only: never updated or deleted.
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	SubmittedBy string    `gorm:"size:100" json:"submitted_by"`
	SubmittedOn time.Time `gorm:"autoCreateTime;not null;index" json:"submitted_on"`
}

// TableName overrides the default pluralization
func (Feedback) TableName() string {
	return "feedback"
}
