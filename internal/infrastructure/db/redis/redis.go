package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTimeout bounds the startup ping.
const defaultTimeout = 5 * time.Second

// Config holds the connection settings for the Redis instance backing
// seller locks and settlement dedup keys.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration // zero means defaultTimeout
}

// Connect builds the client and pings it, so a wrong address fails at
// startup instead of on the first lock acquisition.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
