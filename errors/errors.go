package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the error type carried from the service layer to the
// handlers. Status is the HTTP status the handler should respond with;
// Message is safe to show to end users.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// New creates a new Error with the given user-facing message and status.
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)

	InActiveUserError = errors.New("user inactive")
)

// Messaging taxonomy. Store failures are never surfaced with their
// driver detail; handlers respond with ErrInternalServerError instead.
var (
	ErrEmptyMessageContent = New("message cannot be empty", http.StatusBadRequest)
	ErrNotAParticipant     = New("not authorized to access this conversation", http.StatusForbidden)
	ErrSelfConversation    = New("cannot start a conversation with yourself", http.StatusBadRequest)
)

// GetUniqueContraintError maps a database unique-violation to a client
// facing 400; anything else stays an opaque 500.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return New("record already exists", http.StatusBadRequest)
	}
	return ErrInternalServerError
}

// ErrorHandler is plugged into the gin rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests, try again later",
		"status":  http.StatusText(http.StatusTooManyRequests),
	})
	c.Abort()
}
