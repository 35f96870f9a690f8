package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

var _ Repository = (*RedisRepository)(nil)

// RedisRepository stores each cart as a JSON blob. A zero ttl keeps carts
// forever; otherwise every save pushes the expiry out again.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisRepository) Load(ctx context.Context, key string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(""), nil
	}
	if err != nil {
		r.logger.Error("Failed to get cart from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get cart %s from redis: %w", key, err)
	}

	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	return &models.Cart{Items: items}, nil
}

func (r *RedisRepository) Save(ctx context.Context, key string, cart *models.Cart) error {
	data, err := encodeItems(cart.Items)
	if err != nil {
		return err
	}

	if err = r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save cart to redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save cart %s to redis: %w", key, err)
	}
	return nil
}
