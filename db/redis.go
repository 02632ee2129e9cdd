package db

import (
	"context"
	"fmt"

	"network-rrd/pkg/config"

	"github.com/go-redis/redis/v8"
)

// GetRedisConnection connects to the configured redis and checks it answers.
func GetRedisConnection(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network: cfg.Network,
		Addr:    cfg.Addr,
		DB:      cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
