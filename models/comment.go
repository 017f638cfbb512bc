package models

import "time"

// Comment is a reply on a post, carrying its own author snapshot.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `gorm:"size:64" json:"name"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	CreatedAt time.Time `json:"date"`
}
