package repository

import (
	"context"
	"errors"

	"team_chat_service/internal/chat/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UserRepository definition read-only access to the shared users table
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
	// ListActiveByCompany 同公司 active user, 排除 excludeID
	ListActiveByCompany(ctx context.Context, companyID, excludeID uint) ([]domain.User, error)
}

const userColumns = `id, email, first_name, last_name, role, company_id,
	is_active, is_bot, email_notifications, push_notifications`

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", int64(id))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := make([]int64, 0, len(ids))
	for _, id := range ids {
		params = append(params, int64(id))
	}

	rows, err := r.db.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = ANY($1)", params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepository) ListActiveByCompany(ctx context.Context, companyID, excludeID uint) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE company_id = $1 AND is_active = true AND id <> $2 ORDER BY id",
		int64(companyID), int64(excludeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		id        int64
		companyID *int64
		role      *string
	)
	err := row.Scan(&id, &u.Email, &u.FirstName, &u.LastName, &role, &companyID,
		&u.IsActive, &u.IsBot, &u.EmailNotifications, &u.PushNotifications)
	if err != nil {
		return nil, err
	}
	u.ID = uint(id)
	if role != nil {
		u.Role = *role
	}
	if companyID != nil {
		c := uint(*companyID)
		u.CompanyID = &c
	}
	return &u, nil
}
