package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ==================== Redis 实现 ====================

var _ KVRepository = (*redisKVRepo)(nil)

type redisKVRepo struct {
	client redis.Cmdable
	prefix string
	logger *zap.Logger
}

// NewRedisKVRepository 基于 Redis 的键值仓储
// prefix 会拼接在所有键前，例如 "contenta:"
func NewRedisKVRepository(client redis.Cmdable, prefix string, logger *zap.Logger) KVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisKVRepo{
		client: client,
		prefix: prefix,
		logger: logger.Named("RedisKVRepo"),
	}
}

func (r *redisKVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return val, true, nil
}

func (r *redisKVRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		r.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("redis set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (r *redisKVRepo) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
