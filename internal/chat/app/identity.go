package app

import (
	"context"
	"errors"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	errprocess "team_chat_service/pkg/err"
	"team_chat_service/pkg/token"
)

// IdentityDirectory caller identity, tenant, bot flag
type IdentityDirectory interface {
	Resolve(tokenStr string) (uint, error)
	Lookup(ctx context.Context, userID uint) (*domain.User, error)
	// LookupMany unknown ids are skipped
	LookupMany(ctx context.Context, ids []uint) ([]domain.User, error)
	ListTenantUsers(ctx context.Context, companyID, excludeID uint) ([]domain.User, error)
	// DisplayNames 找不到的 id 不會出現在結果中
	DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error)
}

type identityDirectory struct {
	users repository.UserRepository
}

// NewIdentityDirectory create IdentityDirectory on top of the users table
func NewIdentityDirectory(users repository.UserRepository) IdentityDirectory {
	return &identityDirectory{users: users}
}

func (d *identityDirectory) Resolve(tokenStr string) (uint, error) {
	claims, err := token.ParseJWTWrapper(tokenStr)
	if err != nil {
		return 0, errprocess.Authentication("invalid token")
	}
	return claims.UserID, nil
}

func (d *identityDirectory) Lookup(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := d.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errprocess.NotFound("User not found")
		}
		return nil, errprocess.Internal("lookup user", err)
	}
	return u, nil
}

func (d *identityDirectory) LookupMany(ctx context.Context, ids []uint) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := d.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errprocess.Internal("lookup users", err)
	}
	return users, nil
}

func (d *identityDirectory) ListTenantUsers(ctx context.Context, companyID, excludeID uint) ([]domain.User, error) {
	users, err := d.users.ListActiveByCompany(ctx, companyID, excludeID)
	if err != nil {
		return nil, errprocess.Internal("list tenant users", err)
	}
	return users, nil
}

func (d *identityDirectory) DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	users, err := d.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errprocess.Internal("load sender names", err)
	}
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}
	return names, nil
}
