package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"team_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss key 不存在
var ErrCacheMiss = errors.New("redis: cache miss")

// RedisRepository 定义接口
type RedisRepository[T any] interface {
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	Get(ctx context.Context, key string) (T, error)
	Del(ctx context.Context, key string) error
}

type redisRepository[T any] struct {
	client redis.UniversalClient
}

// NewRedisClient inti Redis Sentinel connection
func NewRedisClient(masterName string, sentinelAddrs []string, db int) (*redis.Client, error) {
	rdb := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    masterName,    // 哨兵主节点名称
		SentinelAddrs: sentinelAddrs, // 哨兵地址列表
		DB:            db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis sentinel: %w", err)
	}

	return rdb, nil
}

// NewRedisRepository init Redis repository (Set, Get, Del) on a sentinel client
func NewRedisRepository[T any](masterName string, sentinelAddrs []string, db int) (RedisRepository[T], error) {
	rdb, err := NewRedisClient(masterName, sentinelAddrs, db)
	if err != nil {
		return nil, err
	}
	return NewRedisRepositoryWithClient[T](rdb), nil
}

// NewRedisRepositoryWithClient wrap an existing client
func NewRedisRepositoryWithClient[T any](client redis.UniversalClient) RedisRepository[T] {
	return &redisRepository[T]{client: client}
}

func (r *redisRepository[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisRepository[T]) Get(ctx context.Context, key string) (T, error) {
	var zeroValue T
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return zeroValue, ErrCacheMiss
	} else if err != nil {
		return zeroValue, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		logger.Log.Error("redis unmarshal failed", zap.String("key", key), zap.Error(err))
		return zeroValue, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return result, nil
}

func (r *redisRepository[T]) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
