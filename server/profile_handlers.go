package server

import (
	"net/http"
	"strconv"

	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/server/response"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		user, err := s.AuthRepository.FindUserByUsername(username)
		if err != nil {
			response.JSON(c, "", apiError.ErrNotFound.Status, nil, apiError.New("user not found", http.StatusNotFound))
			return
		}

		followerCount, fErr := s.FollowRepository.GetFollowerCount(user.ID)
		if fErr != nil {
			logrus.Errorf("follower count: %v", fErr)
			response.JSON(c, "", apiError.ErrInternalServerError.Status, nil, apiError.ErrInternalServerError)
			return
		}
		followingCount, fErr := s.FollowRepository.GetFollowingCount(user.ID)
		if fErr != nil {
			logrus.Errorf("following count: %v", fErr)
			response.JSON(c, "", apiError.ErrInternalServerError.Status, nil, apiError.ErrInternalServerError)
			return
		}

		isFollowing := false
		if callerID := currentUserID(c); callerID != 0 && callerID != user.ID {
			isFollowing, fErr = s.FollowRepository.IsFollowing(callerID, user.ID)
			if fErr != nil {
				logrus.Errorf("is following: %v", fErr)
			}
		}

		profile := models.ProfileResponse{
			UserResponse:   user.Response(),
			Bio:            user.Bio,
			FollowerCount:  followerCount,
			FollowingCount: followingCount,
			IsFollowing:    isFollowing,
		}
		response.JSON(c, "profile retrieved successfully", http.StatusOK, profile, nil)
	}
}

func (s *Server) handleEditProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EditProfileRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		if err := s.AuthService.EditUserProfile(currentUserID(c), &req); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "profile updated successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUploadAvatar() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("avatar file is required", http.StatusBadRequest))
			return
		}
		userID := currentUserID(c)
		avatarURL, thumbnailURL, err := s.MediaService.UploadAvatar(fileHeader, userID)
		if err != nil {
			logrus.Errorf("upload avatar: %v", err)
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New(err.Error(), http.StatusBadRequest))
			return
		}
		if err := s.AuthRepository.UpdateUserAvatar(userID, avatarURL, thumbnailURL); err != nil {
			logrus.Errorf("persist avatar: %v", err)
			response.JSON(c, "", apiError.ErrInternalServerError.Status, nil, apiError.ErrInternalServerError)
			return
		}
		response.JSON(c, "avatar updated successfully", http.StatusOK, gin.H{
			"avatar_url":    avatarURL,
			"thumbnail_url": thumbnailURL,
		}, nil)
	}
}

func (s *Server) handleToggleFollow() gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, parseErr := strconv.ParseUint(c.Param("userID"), 10, 32)
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("invalid user id", http.StatusBadRequest))
			return
		}
		callerID := currentUserID(c)
		if callerID == uint(targetID) {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("cannot follow yourself", http.StatusBadRequest))
			return
		}
		if _, err := s.AuthRepository.FindUserByID(uint(targetID)); err != nil {
			response.JSON(c, "", apiError.ErrNotFound.Status, nil, apiError.New("user not found", http.StatusNotFound))
			return
		}
		following, err := s.FollowRepository.ToggleFollow(callerID, uint(targetID))
		if err != nil {
			logrus.Errorf("toggle follow: %v", err)
			response.JSON(c, "", apiError.ErrInternalServerError.Status, nil, apiError.ErrInternalServerError)
			return
		}
		message := "user unfollowed"
		if following {
			message = "user followed"
		}
		response.JSON(c, message, http.StatusOK, gin.H{"following": following}, nil)
	}
}
