package repository

import (
	"context"

	"team_chat_service/internal/chat/domain"

	"gorm.io/gorm"
)

// Repos repositories bound to one connection or transaction
type Repos struct {
	Messages MessageRepository
	Groups   GroupRepository
}

// UnitOfWork 一個操作的所有寫入在同一個 transaction
type UnitOfWork interface {
	// Repos non-transactional repositories for reads
	Repos() Repos
	// WithinTx fn 回傳 error 時整個 rollback
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork create gorm UnitOfWork
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Repos() Repos {
	return reposOn(u.db)
}

func (u *gormUnitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposOn(tx))
	})
}

func reposOn(db *gorm.DB) Repos {
	return Repos{
		Messages: NewMessageRepository(db),
		Groups:   NewGroupRepository(db),
	}
}

// AutoMigrate create chat tables, foreign keys cascade from chat_groups and messages
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Message{},
		&domain.MessageHide{},
	)
}
