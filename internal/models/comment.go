package models

import "time"

// Comment is an append-only entry on a post. Comments are never edited or
// removed through the API surface, so the model carries no update metadata.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
