package app

import (
	"context"
	"strings"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	"team_chat_service/pkg"
	errprocess "team_chat_service/pkg/err"
	"team_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// GroupUseCase group create, rename and leave
type GroupUseCase struct {
	uow      repository.UnitOfWork
	identity IdentityDirectory
	clock    Clock
}

// NewGroupUseCase create GroupUseCase
func NewGroupUseCase(uow repository.UnitOfWork, identity IdentityDirectory, clock Clock) *GroupUseCase {
	return &GroupUseCase{uow: uow, identity: identity, clock: clock}
}

// Create 建立者自動加入, 其他成員只保留同公司 active user
func (uc *GroupUseCase) Create(ctx context.Context, callerID uint, req domain.CreateGroupReq) (*domain.GroupSummary, error) {
	caller, err := uc.identity.Lookup(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.HasTenant() {
		return nil, errprocess.Permission("User is not associated with a company")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errprocess.Validation("Group name required")
	}

	ids := make([]uint, 0, len(req.MemberIDs))
	for _, id := range pkg.Unique(req.MemberIDs) {
		if id != 0 && id != callerID {
			ids = append(ids, id)
		}
	}
	candidates, err := uc.identity.LookupMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	members := []domain.GroupMember{{UserID: callerID, JoinedAt: now, LastReadAt: &now}}
	for i := range candidates {
		if candidates[i].IsActive && caller.SameTenant(&candidates[i]) {
			members = append(members, domain.GroupMember{UserID: candidates[i].ID, JoinedAt: now, LastReadAt: &now})
		}
	}

	group := &domain.Group{Name: name, CreatedBy: callerID, CreatedAt: now}
	err = uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Groups.Create(ctx, group); err != nil {
			return err
		}
		for i := range members {
			members[i].GroupID = group.ID
		}
		return r.Groups.AddMembers(ctx, members)
	})
	if err != nil {
		return nil, wrap("create group", err)
	}

	logger.Log.Info("group created",
		zap.Uint("group_id", group.ID), zap.Uint("user_id", callerID), zap.Int("members", len(members)))
	return summaryOf(group, int64(len(members))), nil
}

// Rename caller must be a current member
func (uc *GroupUseCase) Rename(ctx context.Context, callerID, groupID uint, name string) (*domain.GroupSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errprocess.Validation("Group name required")
	}

	var (
		group   *domain.Group
		members int64
	)
	err := uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		if group, err = r.Groups.GetByID(ctx, groupID); err != nil {
			return notFoundOr("Group not found", "load group", err)
		}
		ok, err := r.Groups.IsMember(ctx, groupID, callerID)
		if err != nil {
			return err
		}
		if !ok {
			return errprocess.Permission("Not a member of this group")
		}
		if err := r.Groups.Rename(ctx, groupID, name); err != nil {
			return err
		}
		group.Name = name
		members, err = r.Groups.CountMembers(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, wrap("rename group", err)
	}
	return summaryOf(group, members), nil
}

// Leave 只移除 caller 的 membership, 群組與訊息保留
func (uc *GroupUseCase) Leave(ctx context.Context, callerID, groupID uint) error {
	err := uc.uow.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Groups.GetForUpdate(ctx, groupID); err != nil {
			return notFoundOr("Group not found", "load group", err)
		}
		ok, err := r.Groups.IsMember(ctx, groupID, callerID)
		if err != nil {
			return err
		}
		if !ok {
			return errprocess.Validation("Not a member of this group")
		}
		return r.Groups.RemoveMember(ctx, groupID, callerID)
	})
	if err != nil {
		return wrap("leave group", err)
	}
	return nil
}

func summaryOf(g *domain.Group, members int64) *domain.GroupSummary {
	return &domain.GroupSummary{
		ID:           g.ID,
		Name:         g.Name,
		CreatedBy:    g.CreatedBy,
		CreatedAt:    g.CreatedAt,
		MembersCount: members,
	}
}
