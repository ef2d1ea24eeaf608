package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a persistent two-party messaging thread. PairKey is
// the sorted "<minID>:<maxID>" of its two participants; its unique
// index is what makes conversation creation race-free: concurrent
// creates for the same pair collapse onto one row at the store.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PairKey   string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ConversationPairKey returns the canonical key for an unordered pair
// of user ids.
func ConversationPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ConversationParticipant links a user to a conversation. Membership
// is fixed at creation time; exactly two rows exist per conversation.
type ConversationParticipant struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"user"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	ID          uuid.UUID       `json:"id"`
	OtherUser   UserResponse    `json:"other_user"`
	LastMessage *MessagePreview `json:"last_message"`
	UnreadCount int64           `json:"unread_count"`
}

type MessagePreview struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateConversationRequest struct {
	OtherUserID uint `json:"other_user_id" binding:"required"`
}
