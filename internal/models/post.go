package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a short text post on the feed. UpdatedAt differing from
// CreatedAt is how clients detect an edited post.
type Post struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *Profile `gorm:"foreignKey:AuthorID" json:"-"`
}

// BeforeCreate assigns a UUID so IDs are generated the same way on
// every driver, including the sqlite test database.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// MaxContentLength is the hard cap on post content, in runes.
const MaxContentLength = 280
