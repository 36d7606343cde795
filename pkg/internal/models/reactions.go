package models

import "time"

type PostLike struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
