// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is the aggregate root for EpoWrite content. Likes, comments and reports
// are independent sub-collections mutated through field-scoped repository
// operations, never by writing the whole record back.
type Post struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"not null" json:"title"`
	// Body may contain rich-text markup; stored and returned verbatim.
	Body       string `gorm:"type:text;not null" json:"body"`
	AuthorID   uint   `gorm:"not null;index" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`
	// Media is an opaque reference produced by the media upload endpoint.
	Media    string    `json:"media,omitempty"`
	Flagged  bool      `gorm:"not null;default:false" json:"flagged"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	Reports  []Report  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"reports,omitempty"`
	// LikedBy is derived from Likes at query time.
	LikedBy   []uint         `gorm:"-" json:"liked_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the post is currently soft-deleted.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt.Valid
}

// PopulateLikedBy rebuilds the derived LikedBy set from the Likes relation.
func (p *Post) PopulateLikedBy() {
	p.LikedBy = make([]uint, 0, len(p.Likes))
	for _, l := range p.Likes {
		p.LikedBy = append(p.LikedBy, l.UserID)
	}
}
