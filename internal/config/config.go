package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8080" validate:"min=1000,max=65535"`

	// Empty rooms are deleted this long after their last member leaves,
	// unless someone rejoins first.
	EmptyRoomTimeout time.Duration `env:"EMPTY_ROOM_TIMEOUT" envDefault:"10m" validate:"gt=0"`

	// The inactivity sweep runs on this cadence and deletes empty rooms
	// whose last activity is older than RoomInactiveTimeout.
	RoomCleanupInterval time.Duration `env:"ROOM_CLEANUP_INTERVAL" envDefault:"5m"  validate:"gt=0"`
	RoomInactiveTimeout time.Duration `env:"ROOM_INACTIVE_TIMEOUT" envDefault:"30m" validate:"gt=0"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
