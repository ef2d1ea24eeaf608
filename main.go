package main

import (
	"github.com/flexoffhq/flexoff/cache"
	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	"github.com/flexoffhq/flexoff/server"
	"github.com/flexoffhq/flexoff/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)
	postRepo := db.NewPostRepo(gormDB)
	followRepo := db.NewFollowRepo(gormDB)

	// Conversation listing works without redis, just uncached.
	var conversationCache cache.Cache
	if conf.RedisURL != "" {
		redisCache, cErr := cache.NewRedisCache(conf.RedisURL)
		if cErr != nil {
			logrus.Warnf("redis unavailable, continuing without cache: %v", cErr)
		} else {
			conversationCache = redisCache
			defer redisCache.Close()
		}
	}

	mediaService := services.NewMediaService(conf)
	if err := mediaService.EnsureBucket(); err != nil {
		logrus.Warnf("could not ensure media bucket: %v", err)
	}

	authService := services.NewAuthService(authRepo, conf)
	messageService := services.NewMessageService(conversationRepo, conversationCache, conf)
	postService := services.NewPostService(postRepo, mediaService, conf)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.ImageSweepSpec, func() {
		swept, sErr := postService.SweepExpiredImages()
		if sErr != nil {
			logrus.Errorf("image sweep: %v", sErr)
			return
		}
		if swept > 0 {
			logrus.Infof("image sweep cleared %d expired images", swept)
		}
	}); err != nil {
		logrus.Fatalf("invalid image sweep schedule %q: %v", conf.ImageSweepSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	s := &server.Server{
		Config:           conf,
		AuthRepository:   authRepo,
		AuthService:      authService,
		MessageService:   messageService,
		PostService:      postService,
		MediaService:     mediaService,
		FollowRepository: followRepo,
		DB:               *gormDB,
	}
	s.Start()
}
