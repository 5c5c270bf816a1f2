package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is the server-side half of a login. The browser only holds a signed reference to ID.
type Session struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"size:100;not null;index" json:"username"`
	Flashes   datatypes.JSON `json:"flashes"` // Pending one-time notices, [{category, message}]
	CreatedAt time.Time      `json:"created_at"`
}
