package models

import "time"

// Notification is a message delivered to a user about moderation actions on
// their content, e.g. a post removed during administrative cleanup.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
