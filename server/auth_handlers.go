package server

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"

	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/server/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		createdUser, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "signup successful", http.StatusCreated, createdUser.Response(), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		accessToken := c.GetString("access_token")
		if user == nil || accessToken == "" {
			response.JSON(c, "", apiError.ErrUnauthorized.Status, nil, apiError.ErrUnauthorized)
			return
		}
		if err := s.AuthService.LogoutUser(user.Email, accessToken); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.AuthService.GetUserProfile(currentUserID(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "retrieved user successfully", http.StatusOK, user, nil)
	}
}

// decode binds a JSON body and flattens validator failures into a
// single client-facing message.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var vErrs validator.ValidationErrors
		if stdErrors.As(err, &vErrs) {
			msgs := make([]string, 0, len(vErrs))
			for _, f := range vErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on the %s rule", f.Field(), f.Tag()))
			}
			return apiError.New(strings.Join(msgs, "; "), http.StatusBadRequest)
		}
		return apiError.New("invalid request body", http.StatusBadRequest)
	}
	return nil
}
