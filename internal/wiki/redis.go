package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each page as a JSON value under "<prefix><community>:<name>".
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a Redis page store. Prefix may be empty.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "wiki:"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(community, name string) string {
	return r.prefix + community + ":" + name
}

func (r *RedisBackend) GetPage(ctx context.Context, community, name string) (*Page, error) {
	b, err := r.client.Get(ctx, r.key(community, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	var p Page
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisBackend) CreatePage(ctx context.Context, community, name, content, reason string) error {
	now := time.Now().UTC()
	b, err := json.Marshal(&Page{
		Community:  community,
		Name:       name,
		Content:    content,
		Listed:     true,
		Permission: PermissionDefault,
		Reason:     reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.key(community, name), b, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrPageExists
	}
	return nil
}

func (r *RedisBackend) UpdatePageSettings(ctx context.Context, community, name string, listed bool, perm Permission) error {
	return r.modify(ctx, community, name, func(p *Page) {
		p.Listed = listed
		p.Permission = perm
	})
}

func (r *RedisBackend) UpdatePage(ctx context.Context, community, name, content, reason string) error {
	return r.modify(ctx, community, name, func(p *Page) {
		p.Content = content
		p.Reason = reason
		p.UpdatedAt = time.Now().UTC()
	})
}

// modify is a plain get/set; like every backend it carries no version check.
func (r *RedisBackend) modify(ctx context.Context, community, name string, fn func(*Page)) error {
	p, err := r.GetPage(ctx, community, name)
	if err != nil {
		return err
	}
	fn(p)
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(community, name), b, 0).Err()
}
