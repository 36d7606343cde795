package models

import "time"

type Follow struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "followers"
}

type FollowStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
}
