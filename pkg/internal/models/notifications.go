package models

import "gorm.io/datatypes"

const (
	NotificationNewComment  = "new_comment"
	NotificationNewLike     = "new_like"
	NotificationNewFollower = "new_follower"
)

type NotificationData struct {
	SenderUsername string `json:"sender_username"`
	PostID         *uint  `json:"post_id,omitempty"`
}

type Notification struct {
	BaseModel

	UserID uint                                 `json:"user_id" gorm:"index"`
	Type   string                               `json:"type"`
	Data   datatypes.JSONType[NotificationData] `json:"data"`
	IsRead bool                                 `json:"is_read"`
}
