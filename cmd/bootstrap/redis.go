package bootstrap

import (
	"context"
	"log/slog"

	"gearlend/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis returns nil when no address is configured; consumers fall back to
// their non-Redis behavior.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, reminder dedup runs without it")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}
