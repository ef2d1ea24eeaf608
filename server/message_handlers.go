package server

import (
	"net/http"

	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := s.MessageService.ListConversations(currentUserID(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "conversations retrieved successfully", http.StatusOK, summaries, nil)
	}
}

func (s *Server) handleGetOrCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateConversationRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		conversation, err := s.MessageService.GetOrCreateConversation(currentUserID(c), req.OtherUserID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "conversation ready", http.StatusOK, conversation, nil)
	}
}

func (s *Server) handleListMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, parseErr := uuid.Parse(c.Param("conversationID"))
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("invalid conversation id", http.StatusBadRequest))
			return
		}
		messages, err := s.MessageService.ListMessages(currentUserID(c), conversationID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "messages retrieved successfully", http.StatusOK, messages, nil)
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, parseErr := uuid.Parse(c.Param("conversationID"))
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("invalid conversation id", http.StatusBadRequest))
			return
		}
		var req models.SendMessageRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		message, err := s.MessageService.SendMessage(currentUserID(c), conversationID, req.Content)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "message sent", http.StatusCreated, message, nil)
	}
}
