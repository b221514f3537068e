package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/pkg/config"
)

func TestProbeWithoutClient(t *testing.T) {
	err := Probe{}.PingContext(context.Background())
	assert.EqualError(t, err, "redis client not configured")
}

func TestNewRedisUnreachable(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "ping redis 127.0.0.1:1")
}
