package models

import (
	"time"
)

// Profile is the public identity of a user inside the feed. Its ID is the
// subject of the identity provider's token, so profiles are never created
// at signup time - the first post a user writes creates one lazily.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
