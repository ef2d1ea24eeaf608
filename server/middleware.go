package server

import (
	"net/http"
	"time"

	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/server/response"
	"github.com/flexoffhq/flexoff/services/jwt"
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Authorize resolves the bearer token into a user and aborts the
// request on any failure.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.New("unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.New("expired token", http.StatusUnauthorized))
			return
		}

		claims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.New("unauthorized", http.StatusUnauthorized))
			return
		}

		userID, err := jwt.UserIDFromClaims(claims)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.New("unauthorized", http.StatusUnauthorized))
			return
		}

		user, uErr := s.AuthRepository.FindUserByID(userID)
		if uErr != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.New("unauthorized", http.StatusUnauthorized))
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Set("access_token", accessToken)
		c.Set("username", user.Username)

		c.Next()
	}
}

// identifyCaller is a best-effort variant of Authorize for public
// routes: a valid token attaches the caller, anything else leaves the
// request anonymous.
func (s *Server) identifyCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" || s.AuthRepository.IsTokenInBlacklist(accessToken) {
			c.Next()
			return
		}
		claims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			c.Next()
			return
		}
		userID, err := jwt.UserIDFromClaims(claims)
		if err != nil {
			c.Next()
			return
		}
		if user, uErr := s.AuthRepository.FindUserByID(userID); uErr == nil {
			c.Set("userID", user.ID)
			c.Set("user", user)
		}
		c.Next()
	}
}

func (s *Server) limitRateForLogin() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: apiError.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}

// getTokenFromHeader returns the token from the authorization header,
// or the empty string when absent or malformed.
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *apiError.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// currentUserID reads the authenticated user's ID off the context;
// zero means anonymous.
func currentUserID(c *gin.Context) uint {
	v, exists := c.Get("userID")
	if !exists {
		return 0
	}
	id, ok := v.(uint)
	if !ok {
		return 0
	}
	return id
}

func currentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		logrus.Error("unexpected user type on context")
		return nil
	}
	return user
}
