package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/flexoffhq/flexoff/cache"
	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MessageService is the conversation service: conversation
// creation/lookup, participant authorization, message send/list and
// read-state tracking. Caller identity is always an explicit
// parameter; a zero userID means "anonymous" and is rejected.
type MessageService interface {
	ListConversations(userID uint) ([]models.ConversationSummary, *apiError.Error)
	GetOrCreateConversation(userID, otherUserID uint) (*models.Conversation, *apiError.Error)

	// ListMessages is a read WITH A SIDE EFFECT: besides returning the
	// conversation's messages oldest first, it marks every message not
	// authored by the caller as read. Callers that must not mutate
	// read state have no pure alternative in this design.
	ListMessages(userID uint, conversationID uuid.UUID) ([]models.MessageView, *apiError.Error)

	SendMessage(userID uint, conversationID uuid.UUID, content string) (*models.Message, *apiError.Error)
}

type messageService struct {
	Config           *config.Config
	conversationRepo db.ConversationRepository
	cache            cache.Cache
}

const conversationCacheTTL = time.Minute

// NewMessageService instantiates a MessageService. cache may be nil,
// in which case conversation lists are computed on every call.
func NewMessageService(conversationRepo db.ConversationRepository, c cache.Cache, conf *config.Config) MessageService {
	return &messageService{
		Config:           conf,
		conversationRepo: conversationRepo,
		cache:            c,
	}
}

func conversationsCacheKey(userID uint) string {
	return fmt.Sprintf("conversations:%d", userID)
}

func (s *messageService) ListConversations(userID uint) ([]models.ConversationSummary, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}

	if cached, ok := s.cachedSummaries(userID); ok {
		return cached, nil
	}

	ids, err := s.conversationRepo.GetParticipantConversationIDs(userID)
	if err != nil {
		logrus.Errorf("ListConversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if len(ids) == 0 {
		return []models.ConversationSummary{}, nil
	}

	others, err := s.conversationRepo.GetOtherParticipants(ids, userID)
	if err != nil {
		logrus.Errorf("ListConversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	latest, err := s.conversationRepo.GetLatestMessages(ids)
	if err != nil {
		logrus.Errorf("ListConversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	unread, err := s.conversationRepo.GetUnreadCounts(ids, userID)
	if err != nil {
		logrus.Errorf("ListConversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// latest is ordered newest first; the first hit per conversation
	// is its last message.
	lastByConversation := make(map[uuid.UUID]*models.Message, len(ids))
	for i := range latest {
		m := &latest[i]
		if _, ok := lastByConversation[m.ConversationID]; !ok {
			lastByConversation[m.ConversationID] = m
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(others))
	for _, participant := range others {
		summary := models.ConversationSummary{
			ID:          participant.ConversationID,
			OtherUser:   participant.User.Response(),
			UnreadCount: unread[participant.ConversationID],
		}
		if last, ok := lastByConversation[participant.ConversationID]; ok {
			summary.LastMessage = &models.MessagePreview{
				Content:   last.Content,
				CreatedAt: last.CreatedAt,
			}
		} else if !s.Config.ShowEmptyConversations {
			// Conversations that never saw a message are hidden.
			continue
		}
		summaries = append(summaries, summary)
	}

	s.storeSummaries(userID, summaries)
	return summaries, nil
}

// GetOrCreateConversation is idempotent and symmetric: for any pair of
// users at most one conversation exists, enforced by the pair-key
// unique index rather than an application-level check.
func (s *messageService) GetOrCreateConversation(userID, otherUserID uint) (*models.Conversation, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	if otherUserID == 0 {
		return nil, apiError.ErrBadRequest
	}
	if otherUserID == userID {
		return nil, apiError.ErrSelfConversation
	}

	pairKey := models.ConversationPairKey(userID, otherUserID)
	conv, err := s.conversationRepo.FindConversationByPairKey(pairKey)
	if err != nil {
		logrus.Errorf("GetOrCreateConversation: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if conv != nil {
		return conv, nil
	}

	conv, err = s.conversationRepo.CreateConversation(userID, otherUserID)
	if err != nil {
		logrus.Errorf("GetOrCreateConversation: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return conv, nil
}

func (s *messageService) ListMessages(userID uint, conversationID uuid.UUID) ([]models.MessageView, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}

	ok, err := s.conversationRepo.IsParticipant(conversationID, userID)
	if err != nil {
		logrus.Errorf("ListMessages: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !ok {
		return nil, apiError.ErrNotAParticipant
	}

	msgs, err := s.conversationRepo.GetMessages(conversationID)
	if err != nil {
		logrus.Errorf("ListMessages: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.conversationRepo.MarkMessagesRead(conversationID, userID); err != nil {
		logrus.Errorf("ListMessages mark read: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	// Reading mutates the caller's unread counts.
	s.invalidateConversations(userID)

	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, models.MessageView{
			Message:      m,
			SenderIsSelf: m.SenderID == userID,
		})
	}
	return views, nil
}

func (s *messageService) SendMessage(userID uint, conversationID uuid.UUID, content string) (*models.Message, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apiError.ErrEmptyMessageContent
	}

	ok, err := s.conversationRepo.IsParticipant(conversationID, userID)
	if err != nil {
		logrus.Errorf("SendMessage: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !ok {
		return nil, apiError.ErrNotAParticipant
	}

	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		Read:           false,
	}
	if err := s.conversationRepo.SaveMessage(msg); err != nil {
		logrus.Errorf("SendMessage: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Both participants' conversation lists are now stale.
	s.invalidateConversations(userID)
	if others, err := s.conversationRepo.GetOtherParticipants([]uuid.UUID{conversationID}, userID); err == nil {
		for _, other := range others {
			s.invalidateConversations(other.UserID)
		}
	}

	return msg, nil
}

func (s *messageService) cachedSummaries(userID uint) ([]models.ConversationSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(context.Background(), conversationsCacheKey(userID))
	if err != nil {
		if err != cache.ErrMiss {
			logrus.Warnf("conversation cache get: %v", err)
		}
		return nil, false
	}
	var summaries []models.ConversationSummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		logrus.Warnf("conversation cache decode: %v", err)
		return nil, false
	}
	return summaries, true
}

func (s *messageService) storeSummaries(userID uint, summaries []models.ConversationSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.Background(), conversationsCacheKey(userID), string(raw), conversationCacheTTL); err != nil {
		logrus.Warnf("conversation cache set: %v", err)
	}
}

func (s *messageService) invalidateConversations(userID uint) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Del(context.Background(), conversationsCacheKey(userID)); err != nil {
		logrus.Warnf("conversation cache del: %v", err)
	}
}
