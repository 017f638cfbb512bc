package models

import "time"

// Post is a feed entry. Name and Avatar are snapshots of the author taken at
// creation time so historical posts keep showing the name at time of posting.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `gorm:"size:64" json:"name"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	CreatedAt time.Time `json:"date"`
	Likes     []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"likes"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}
