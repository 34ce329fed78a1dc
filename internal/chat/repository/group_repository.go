package repository

import (
	"context"
	"time"

	"team_chat_service/internal/chat/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository definition membership registry
type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) error
	GetByID(ctx context.Context, id uint) (*domain.Group, error)
	// GetForUpdate row lock until the transaction ends
	GetForUpdate(ctx context.Context, id uint) (*domain.Group, error)
	Rename(ctx context.Context, id uint, name string) error

	AddMembers(ctx context.Context, members []domain.GroupMember) error
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	// MemberGroupIDs 過濾出 userID 所屬的 groupIDs
	MemberGroupIDs(ctx context.Context, userID uint, groupIDs []uint) ([]uint, error)
	RemoveMember(ctx context.Context, groupID, userID uint) error
	CountMembers(ctx context.Context, groupID uint) (int64, error)
	// AdvanceCursor last_read_at 只會往前
	AdvanceCursor(ctx context.Context, groupID, userID uint, at time.Time) error

	ListForUser(ctx context.Context, userID uint) ([]domain.GroupSummary, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository create GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(g).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) GetForUpdate(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&g, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) Rename(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&domain.Group{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *groupRepository) AddMembers(ctx context.Context, members []domain.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&members).Error
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *groupRepository) MemberGroupIDs(ctx context.Context, userID uint, groupIDs []uint) ([]uint, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("user_id = ? AND group_id IN ?", userID, groupIDs).
		Order("group_id").
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.GroupMember{}).Error
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&n).Error
	return n, err
}

func (r *groupRepository) AdvanceCursor(ctx context.Context, groupID, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("last_read_at", gorm.Expr("GREATEST(COALESCE(last_read_at, ?), ?)", at, at)).Error
}

func (r *groupRepository) ListForUser(ctx context.Context, userID uint) ([]domain.GroupSummary, error) {
	var rows []domain.GroupSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT g.id, g.name, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members c WHERE c.group_id = g.id) AS members_count
		FROM chat_groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.id`, userID).Scan(&rows).Error
	return rows, err
}
