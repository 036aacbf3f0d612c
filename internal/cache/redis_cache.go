package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/surp29/Backend-PoS/internal/domain"
)

type RedisChatCache struct {
	client *redis.Client
}

func NewRedisChatCache(addr string, password string, db int) *RedisChatCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisChatCache{client: client}
}

func (c *RedisChatCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisChatCache) Close() error {
	return c.client.Close()
}

func (c *RedisChatCache) Get(ctx context.Context, key string) (*domain.ChatResponse, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var resp domain.ChatResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisChatCache) Set(ctx context.Context, key string, value *domain.ChatResponse, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
