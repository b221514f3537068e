package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/college-adp-api/pkg/config"
)

const dialTimeout = 5 * time.Second

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

// Probe adapts a Redis client to the readiness check interface.
type Probe struct {
	Client redis.UniversalClient
}

// PingContext reports whether Redis answers a PING.
func (p Probe) PingContext(ctx context.Context) error {
	if p.Client == nil {
		return fmt.Errorf("redis client not configured")
	}
	return p.Client.Ping(ctx).Err()
}
