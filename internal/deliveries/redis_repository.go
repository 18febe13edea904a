package deliveries

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository with SETNX under "<prefix><id>" and
// TTL = expiresAt - now.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based delivery repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "delivery:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Claim(ctx context.Context, d *Delivery) (bool, error) {
	exp := time.Until(d.ExpiresAt)
	if exp <= 0 {
		exp = time.Second
	}
	return r.client.SetNX(ctx, r.prefix+d.ID, d.CreatedAt.Unix(), exp).Result()
}
