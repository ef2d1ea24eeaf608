package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a feed entry. ImageExpiresAt, when set, marks the attached
// image for removal by the periodic sweep.
type Post struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"user"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	ImageURL       *string    `json:"image_url"`
	ImageExpiresAt *time.Time `json:"image_expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	Likes          []Like     `gorm:"foreignKey:PostID" json:"likes,omitempty"`
	Comments       []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Like is a user's like on a post. The (post_id, user_id) unique index
// is what the toggle relies on: a conflicting insert means "already
// liked" and triggers the compensating delete.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Comment represents a user's comment on a post
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CreatePostRequest struct {
	Content        string     `json:"content" binding:"required"`
	ImageURL       *string    `json:"image_url"`
	ImageExpiresAt *time.Time `json:"image_expires_at"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostResponse is one feed entry as served to clients.
type PostResponse struct {
	ID             uuid.UUID    `json:"id"`
	Content        string       `json:"content"`
	ImageURL       *string      `json:"image_url"`
	ImageExpiresAt *time.Time   `json:"image_expires_at"`
	CreatedAt      time.Time    `json:"created_at"`
	User           UserResponse `json:"user"`
	LikesCount     int          `json:"likes_count"`
	CommentsCount  int          `json:"comments_count"`
	LikedByUser    bool         `json:"liked_by_user"`
}

// TrendingTopic is a hashtag with its occurrence count over recent posts.
type TrendingTopic struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
