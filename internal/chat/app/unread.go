package app

import (
	"context"

	"team_chat_service/internal/chat/repository"
	errprocess "team_chat_service/pkg/err"
)

// UnreadAggregator unread totals from grouped counts, never one query per conversation
type UnreadAggregator struct {
	uow repository.UnitOfWork
}

// NewUnreadAggregator create UnreadAggregator
func NewUnreadAggregator(uow repository.UnitOfWork) *UnreadAggregator {
	return &UnreadAggregator{uow: uow}
}

// ByGroup group_id -> messages newer than the caller's cursor
func (a *UnreadAggregator) ByGroup(ctx context.Context, userID uint) (map[uint]int64, error) {
	rows, err := a.uow.Repos().Messages.CountGroupUnread(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal("count group unread", err)
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}

// BySender sender_id -> unread DMs addressed to the caller
func (a *UnreadAggregator) BySender(ctx context.Context, userID uint) (map[uint]int64, error) {
	rows, err := a.uow.Repos().Messages.CountDirectUnread(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal("count direct unread", err)
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}
