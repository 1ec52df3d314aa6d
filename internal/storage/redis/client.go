package redis

import (
	"github.com/ilindan-dev/alertgate/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient creates the shared go-redis client for daemon mode.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
