package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	"github.com/flexoffhq/flexoff/services"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Config           *config.Config
	AuthRepository   db.AuthRepository
	AuthService      services.AuthService
	MessageService   services.MessageService
	PostService      services.PostService
	MediaService     services.MediaService
	FollowRepository db.FollowRepository
	DB               db.GormDB
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains
// in-flight requests.
func (s *Server) Start() {
	router := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		logrus.Infof("server started on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}
	logrus.Info("server exited")
}
