package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"

	"go.uber.org/zap"
)

type cachedUserRepository struct {
	UserRepository
	cache database.RedisRepository[domain.User]
	ttl   time.Duration
}

// NewCachedUserRepository FindByID 走 redis cache, 其餘直接查 DB
func NewCachedUserRepository(inner UserRepository, cache database.RedisRepository[domain.User], ttl time.Duration) UserRepository {
	if cache == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{UserRepository: inner, cache: cache, ttl: ttl}
}

func userKey(id uint) string {
	return fmt.Sprintf("chat:user:%d", id)
}

func (r *cachedUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	u, err := r.cache.Get(ctx, userKey(id))
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		logger.Log.Warn("user cache read failed", zap.Uint("user_id", id), zap.Error(err))
	}

	found, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, userKey(id), *found, r.ttl); err != nil {
		logger.Log.Warn("user cache write failed", zap.Uint("user_id", id), zap.Error(err))
	}
	return found, nil
}
