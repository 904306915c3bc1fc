package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/account-ledger-core/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance backing the account locks
func NewRedisClient(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Connected to Redis", "address", cfg.Address)

	return client, nil
}
