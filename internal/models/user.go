package models

import "time"

// DefaultAvatarURL is assigned to newly registered users.
const DefaultAvatarURL = "https://placehold.co/150"

// User represents a registered account.
type User struct {
	ID           ID        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(100);index"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:varchar(255);not null"` // never serialized
	Bio          string    `json:"bio" gorm:"type:text"`
	AvatarURL    string    `json:"avatar_url" gorm:"type:varchar(512)"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;default:user"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStats summarizes a user's activity.
type UserStats struct {
	TotalPosts         int64 `json:"totalPosts"`
	TotalLikesReceived int64 `json:"totalLikesReceived"`
}
