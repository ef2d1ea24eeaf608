package server

import (
	"net/http"

	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/server/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleGetFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := s.PostService.GetFeed(currentUserID(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "posts retrieved successfully", http.StatusOK, posts, nil)
	}
}

func (s *Server) handleGetUserPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, uErr := s.AuthRepository.FindUserByUsername(c.Param("username"))
		if uErr != nil {
			response.JSON(c, "", http.StatusNotFound, nil, apiError.New("user not found", http.StatusNotFound))
			return
		}
		posts, err := s.PostService.GetPostsByUser(user.ID, currentUserID(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "posts retrieved successfully", http.StatusOK, posts, nil)
	}
}

func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreatePostRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		post, err := s.PostService.CreatePost(currentUserID(c), &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "post created successfully", http.StatusCreated, post, nil)
	}
}

func (s *Server) handleLikePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, parseErr := uuid.Parse(c.Param("postID"))
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("invalid post id", http.StatusBadRequest))
			return
		}
		liked, err := s.PostService.LikePost(currentUserID(c), postID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		message := "post unliked"
		if liked {
			message = "post liked"
		}
		response.JSON(c, message, http.StatusOK, gin.H{"liked": liked}, nil)
	}
}

func (s *Server) handleCommentOnPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, parseErr := uuid.Parse(c.Param("postID"))
		if parseErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("invalid post id", http.StatusBadRequest))
			return
		}
		var req models.CommentRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}
		comment, err := s.PostService.CommentOnPost(currentUserID(c), postID, req.Content)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "comment added", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleGetTrendingTopics() gin.HandlerFunc {
	return func(c *gin.Context) {
		topics, err := s.PostService.GetTrendingTopics()
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "trending topics retrieved successfully", http.StatusOK, topics, nil)
	}
}

func (s *Server) handleUploadPostImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New("image file is required", http.StatusBadRequest))
			return
		}
		imageURL, err := s.MediaService.UploadPostImage(fileHeader, currentUserID(c))
		if err != nil {
			logrus.Errorf("upload post image: %v", err)
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.New(err.Error(), http.StatusBadRequest))
			return
		}
		response.JSON(c, "image uploaded successfully", http.StatusOK, gin.H{"image_url": imageURL}, nil)
	}
}
