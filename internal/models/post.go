package models

import "time"

// Post is a piece of content owned by a user. Like and comment counts are
// derived from LikeSet and Comments and never stored.
type Post struct {
	ID        ID        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    ID        `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Author   *User      `json:"-" gorm:"foreignKey:UserID"`
	Comments []Comment  `json:"-" gorm:"foreignKey:PostID"`
	LikeSet  []PostLike `json:"-" gorm:"foreignKey:PostID"`
}

// PostLike is one member of a post's like set. The composite primary key
// makes membership unique.
type PostLike struct {
	PostID    ID `gorm:"primaryKey;type:varchar(36)"`
	UserID    ID `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }

// LikerIDs returns the members of the like set.
func (p *Post) LikerIDs() []ID {
	ids := make([]ID, 0, len(p.LikeSet))
	for _, l := range p.LikeSet {
		ids = append(ids, l.UserID)
	}
	return ids
}

// EnrichedPost is the presentation form of a post: joined author, comments
// and computed counters.
type EnrichedPost struct {
	ID            ID        `json:"id"`
	UserID        ID        `json:"user_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	Likes         []ID      `json:"likes"`
	Author        *User     `json:"author"`
	Comments      []Comment `json:"comments,omitempty"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount *int      `json:"commentsCount,omitempty"`
}
