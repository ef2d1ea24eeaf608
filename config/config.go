package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port"`
	Env                      string `envconfig:"env"`
	Host                     string `envconfig:"host"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresPort             int    `envconfig:"postgres_port"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresPassword         string `envconfig:"postgres_password"`
	PostgresDB               string `envconfig:"postgres_db"`
	JWTSecret                string `envconfig:"jwt_secret"`
	RedisURL                 string `envconfig:"redis_url"`
	AwsRegion                string `envconfig:"aws_region"`
	AwsBucket                string `envconfig:"aws_bucket"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`

	// ShowEmptyConversations controls whether conversations with no
	// messages yet appear in the conversation list. The product default
	// hides them.
	ShowEmptyConversations bool `envconfig:"show_empty_conversations"`

	// ImageSweepSpec is the cron spec for the expired post-image sweep.
	ImageSweepSpec string `envconfig:"image_sweep_spec" default:"@hourly"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			logrus.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("flexoff", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
