package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskroster/taskroster/internal/config"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshStore tracks issued refresh tokens so each can be used once.
type RefreshStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Consume deletes the token and returns its user. It returns
	// ErrRefreshTokenNotFound for unknown, expired or already used tokens.
	Consume(ctx context.Context, jti string) (string, error)
}

type RedisRefreshStore struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(env *config.RedisEnv) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     env.Addr,
		Password: env.Password,
		DB:       env.DB,
	})
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client, prefix: "taskroster:refresh:"}
}

func (s *RedisRefreshStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Consume(ctx context.Context, jti string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return userID, nil
}
