package app

import (
	"context"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
)

// ConversationUseCase conversation directory
type ConversationUseCase struct {
	uow      repository.UnitOfWork
	identity IdentityDirectory
	unread   *UnreadAggregator
}

// NewConversationUseCase create ConversationUseCase
func NewConversationUseCase(uow repository.UnitOfWork, identity IdentityDirectory) *ConversationUseCase {
	return &ConversationUseCase{
		uow:      uow,
		identity: identity,
		unread:   NewUnreadAggregator(uow),
	}
}

// ListConversations groups the caller belongs to and same-company users, each with unread_count
func (uc *ConversationUseCase) ListConversations(ctx context.Context, callerID uint) (*domain.Conversations, error) {
	caller, err := uc.identity.Lookup(ctx, callerID)
	if err != nil {
		return nil, err
	}

	groups, err := uc.uow.Repos().Groups.ListForUser(ctx, callerID)
	if err != nil {
		return nil, wrap("list groups", err)
	}
	groupUnread, err := uc.unread.ByGroup(ctx, callerID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].UnreadCount = groupUnread[groups[i].ID]
	}
	if groups == nil {
		groups = []domain.GroupSummary{}
	}

	users := []domain.UserSummary{}
	// 沒有公司的 user 看不到任何同事
	if caller.HasTenant() {
		mates, err := uc.identity.ListTenantUsers(ctx, *caller.CompanyID, callerID)
		if err != nil {
			return nil, err
		}
		dmUnread, err := uc.unread.BySender(ctx, callerID)
		if err != nil {
			return nil, err
		}
		for i := range mates {
			users = append(users, domain.UserSummary{
				User:        mates[i],
				FullName:    mates[i].FullName(),
				UnreadCount: dmUnread[mates[i].ID],
			})
		}
	}

	return &domain.Conversations{Groups: groups, Users: users}, nil
}
