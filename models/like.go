package models

import "time"

// Like records that a user liked a post. The composite unique index makes a
// duplicate like from the same user impossible even under concurrent requests.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user"`
	CreatedAt time.Time `json:"-"`
}
