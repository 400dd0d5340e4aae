package database

import (
	"context"
	"fmt"
	"time"

	"github.com/healthsense/predictor/pkg/common/config"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis connects and pings once. A failed ping is returned to the caller,
// which decides whether the cache is optional.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Log.Info("Connected to Redis")
	return client, nil
}
