package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the EpoWrite application.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	// DisplayName is denormalized onto posts as author_name; renaming a user
	// triggers a bulk rewrite across their posts.
	DisplayName string         `gorm:"not null" json:"display_name"`
	Avatar      string         `json:"avatar"`
	IsModerator bool           `gorm:"not null;default:false" json:"is_moderator"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// Name returns the name shown on authored content: the display name when
// set, otherwise the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
