package models

import "time"

type Account struct {
	BaseModel

	Email    string `json:"email" gorm:"uniqueIndex"`
	Password []byte `json:"-"`

	ResetToken          *string    `json:"-" gorm:"index"`
	ResetTokenExpiredAt *time.Time `json:"-"`
}

type AuthSession struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	AccountID uint       `json:"account_id" gorm:"index"`
	ExpiredAt time.Time  `json:"expired_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
}
