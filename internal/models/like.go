package models

import (
	"time"
)

// Like records that a user liked a post. The composite primary key is the
// natural key (post_id, user_id): the store, not the handler pre-check, is
// the final arbiter against duplicate likes.
type Like struct {
	PostID    string    `gorm:"primaryKey;type:uuid" json:"post_id"`
	UserID    string    `gorm:"primaryKey;type:uuid;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
