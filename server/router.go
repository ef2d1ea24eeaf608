package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/flexoffhq/flexoff/server/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if s.Config.AccessControlAllowOrigin != "" {
		corsConfig.AllowOrigins = []string{s.Config.AccessControlAllowOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.MaxMultipartMemory = 32 << 20

	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")

	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.limitRateForLogin(), s.handleLogin())

	// Public feed surfaces still resolve the caller when a token is
	// present so like state and follow state can be personalized.
	apirouter.GET("/posts", s.identifyCaller(), s.handleGetFeed())
	apirouter.GET("/topics/trending", s.handleGetTrendingTopics())
	apirouter.GET("/profile/:username", s.identifyCaller(), s.handleGetProfile())
	apirouter.GET("/profile/:username/posts", s.identifyCaller(), s.handleGetUserPosts())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleGetMe())
	authorized.PUT("/me/profile", s.handleEditProfile())
	authorized.PUT("/me/avatar", s.handleUploadAvatar())

	authorized.POST("/posts", s.handleCreatePost())
	authorized.PUT("/posts/:postID/like", s.handleLikePost())
	authorized.POST("/posts/:postID/comments", s.handleCommentOnPost())
	authorized.PUT("/upload/post-image", s.handleUploadPostImage())

	authorized.PUT("/user/:userID/follow", s.handleToggleFollow())

	authorized.GET("/conversations", s.handleListConversations())
	authorized.POST("/conversations", s.handleGetOrCreateConversation())
	authorized.GET("/conversations/:conversationID/messages", s.handleListMessages())
	authorized.POST("/conversations/:conversationID/messages", s.handleSendMessage())

	router.NoRoute(func(c *gin.Context) {
		response.JSON(c, "", http.StatusNotFound, nil, fmt.Errorf("invalid route"))
	})
}
