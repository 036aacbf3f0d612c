package cache

import (
	"context"
	"time"

	"github.com/surp29/Backend-PoS/internal/domain"
)

type ChatCache interface {
	Get(ctx context.Context, key string) (*domain.ChatResponse, bool, error)
	Set(ctx context.Context, key string, value *domain.ChatResponse, ttl time.Duration) error
}

type NoopChatCache struct{}

func (NoopChatCache) Get(_ context.Context, _ string) (*domain.ChatResponse, bool, error) {
	return nil, false, nil
}

func (NoopChatCache) Set(_ context.Context, _ string, _ *domain.ChatResponse, _ time.Duration) error {
	return nil
}
