package models

import "time"

const (
	ProfileRoleUser  = "user"
	ProfileRoleAdmin = "admin"
)

// Profile shares its primary key with the Account it was created alongside.
type Profile struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username    string    `json:"username" gorm:"uniqueIndex"`
	DisplayName *string   `json:"display_name"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	Role        string    `json:"role" gorm:"default:user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v Profile) IsAdmin() bool {
	return v.Role == ProfileRoleAdmin
}
