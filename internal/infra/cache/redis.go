// Package cache holds redis-backed read-through caches.
package cache

import (
	"context"
	"fmt"
	"time"

	log "log/slog"

	"github.com/redis/go-redis/v9"
)

// Open parses a redis:// URL and pings the server once.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("redis connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
