package models

import "time"

// DefaultAuthorName is stored when the caller's token carries no username.
const DefaultAuthorName = "User"

// Comment is a reply to a post. AuthorName is captured at write time and is
// not kept in sync with later username changes.
type Comment struct {
	ID         ID        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID     ID        `json:"post_id" gorm:"type:varchar(36);not null;index"`
	UserID     ID        `json:"user_id" gorm:"type:varchar(36);not null;index"`
	AuthorName string    `json:"author_name" gorm:"type:varchar(100)"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
