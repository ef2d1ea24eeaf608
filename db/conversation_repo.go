package db

import (
	"github.com/flexoffhq/flexoff/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository owns conversation, participant and message
// rows. Every query is scoped by the ids the service passes in; no
// session state is read here.
type ConversationRepository interface {
	GetParticipantConversationIDs(userID uint) ([]uuid.UUID, error)
	IsParticipant(conversationID uuid.UUID, userID uint) (bool, error)
	GetOtherParticipants(conversationIDs []uuid.UUID, userID uint) ([]models.ConversationParticipant, error)
	GetLatestMessages(conversationIDs []uuid.UUID) ([]models.Message, error)
	GetUnreadCounts(conversationIDs []uuid.UUID, userID uint) (map[uuid.UUID]int64, error)
	FindConversationByPairKey(pairKey string) (*models.Conversation, error)
	CreateConversation(userID, otherUserID uint) (*models.Conversation, error)
	GetMessages(conversationID uuid.UUID) ([]models.Message, error)
	MarkMessagesRead(conversationID uuid.UUID, readerID uint) error
	SaveMessage(msg *models.Message) error
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func (r *conversationRepo) GetParticipantConversationIDs(userID uint) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch participations")
	}
	return ids, nil
}

func (r *conversationRepo) IsParticipant(conversationID uuid.UUID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not check participation")
	}
	return count > 0, nil
}

func (r *conversationRepo) GetOtherParticipants(conversationIDs []uuid.UUID, userID uint) ([]models.ConversationParticipant, error) {
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	var participants []models.ConversationParticipant
	err := r.DB.Preload("User").
		Where("conversation_id IN ?", conversationIDs).
		Where("user_id <> ?", userID).
		Find(&participants).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch other participants")
	}
	return participants, nil
}

// GetLatestMessages returns all messages of the given conversations
// newest first; the caller picks the head per conversation.
func (r *conversationRepo) GetLatestMessages(conversationIDs []uuid.UUID) ([]models.Message, error) {
	if len(conversationIDs) == 0 {
		return nil, nil
	}
	var msgs []models.Message
	err := r.DB.Where("conversation_id IN ?", conversationIDs).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch latest messages")
	}
	return msgs, nil
}

func (r *conversationRepo) GetUnreadCounts(conversationIDs []uuid.UUID, userID uint) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ConversationID uuid.UUID
		Total          int64
	}
	err := r.DB.Model(&models.Message{}).
		Select("conversation_id, count(*) as total").
		Where("conversation_id IN ?", conversationIDs).
		Where("sender_id <> ? AND read = ?", userID, false).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not count unread messages")
	}
	for _, row := range rows {
		counts[row.ConversationID] = row.Total
	}
	return counts, nil
}

func (r *conversationRepo) FindConversationByPairKey(pairKey string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := r.DB.Where("pair_key = ?", pairKey).First(conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not look up conversation")
	}
	return conv, nil
}

// CreateConversation inserts the conversation and its two participant
// rows. The insert tolerates a pair-key conflict: when another call
// created the pair first, the winner's row is adopted and no second
// conversation comes into existence.
func (r *conversationRepo) CreateConversation(userID, otherUserID uint) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:      uuid.New(),
		PairKey: models.ConversationPairKey(userID, otherUserID),
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).Create(conv)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race; the existing row already has its participants.
			return tx.Where("pair_key = ?", conv.PairKey).First(conv).Error
		}
		participants := []models.ConversationParticipant{
			{ConversationID: conv.ID, UserID: userID},
			{ConversationID: conv.ID, UserID: otherUserID},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		logrus.Errorf("CreateConversation error: %v", err)
		return nil, errors.Wrap(err, "could not create conversation")
	}
	return conv, nil
}

func (r *conversationRepo) GetMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch messages")
	}
	return msgs, nil
}

// MarkMessagesRead flips every unread message in the conversation not
// authored by the reader. The sender's own messages are never touched.
func (r *conversationRepo) MarkMessagesRead(conversationID uuid.UUID, readerID uint) error {
	err := r.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		Update("read", true).Error
	if err != nil {
		return errors.Wrap(err, "could not mark messages read")
	}
	return nil
}

func (r *conversationRepo) SaveMessage(msg *models.Message) error {
	if err := r.DB.Create(msg).Error; err != nil {
		logrus.Errorf("SaveMessage error: %v", err)
		return errors.Wrap(err, "could not save message")
	}
	return nil
}
