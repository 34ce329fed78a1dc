package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/pkg/database"
	"team_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) ListActiveByCompany(ctx context.Context, companyID, excludeID uint) ([]domain.User, error) {
	args := m.Called(ctx, companyID, excludeID)
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockUserCache struct {
	mock.Mock
}

func (m *mockUserCache) Set(ctx context.Context, key string, value domain.User, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockUserCache) Get(ctx context.Context, key string) (domain.User, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func TestCachedUserRepository(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	alice := domain.User{ID: 1, FirstName: "Alice", LastName: "Lin", IsActive: true}

	t.Run("cache hit skips database", func(t *testing.T) {
		inner := new(mockUserRepository)
		cache := new(mockUserCache)
		cache.On("Get", ctx, "chat:user:1").Return(alice, nil)

		repo := NewCachedUserRepository(inner, cache, time.Minute)
		u, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Alice", u.FirstName)
		inner.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		inner := new(mockUserRepository)
		cache := new(mockUserCache)
		cache.On("Get", ctx, "chat:user:1").Return(domain.User{}, database.ErrCacheMiss)
		inner.On("FindByID", ctx, uint(1)).Return(&alice, nil)
		cache.On("Set", ctx, "chat:user:1", alice, time.Minute).Return(nil)

		repo := NewCachedUserRepository(inner, cache, time.Minute)
		u, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		inner.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("redis failure falls back to database", func(t *testing.T) {
		inner := new(mockUserRepository)
		cache := new(mockUserCache)
		cache.On("Get", ctx, "chat:user:1").Return(domain.User{}, errors.New("connection refused"))
		inner.On("FindByID", ctx, uint(1)).Return(&alice, nil)
		cache.On("Set", ctx, "chat:user:1", alice, time.Minute).Return(errors.New("connection refused"))

		repo := NewCachedUserRepository(inner, cache, time.Minute)
		u, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Alice", u.FirstName)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		inner := new(mockUserRepository)
		cache := new(mockUserCache)
		cache.On("Get", ctx, "chat:user:9").Return(domain.User{}, database.ErrCacheMiss)
		inner.On("FindByID", ctx, uint(9)).Return(nil, ErrNotFound)

		repo := NewCachedUserRepository(inner, cache, time.Minute)
		_, err := repo.FindByID(ctx, 9)

		assert.ErrorIs(t, err, ErrNotFound)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero ttl disables cache", func(t *testing.T) {
		inner := new(mockUserRepository)
		repo := NewCachedUserRepository(inner, new(mockUserCache), 0)
		assert.Same(t, inner, repo)
	})
}
