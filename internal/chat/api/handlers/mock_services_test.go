package handlers

import (
	"context"
	"errors"

	"team_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

type mockConversationService struct {
	mock.Mock
}

func (m *mockConversationService) ListConversations(ctx context.Context, callerID uint) (*domain.Conversations, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversations), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMessageService struct {
	mock.Mock
}

func (m *mockMessageService) GetMessages(ctx context.Context, callerID uint, target domain.Target) ([]domain.MessageView, error) {
	args := m.Called(ctx, callerID, target)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.MessageView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageService) Send(ctx context.Context, callerID uint, req domain.SendMessageReq) (*domain.MessageView, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MessageView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageService) Delete(ctx context.Context, callerID, messageID uint, mode string) error {
	return m.Called(ctx, callerID, messageID, mode).Error(0)
}

func (m *mockMessageService) Clear(ctx context.Context, callerID uint, target domain.Target) (int64, error) {
	args := m.Called(ctx, callerID, target)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageService) Forward(ctx context.Context, callerID uint, req domain.ForwardReq) (int, error) {
	args := m.Called(ctx, callerID, req)
	return args.Int(0), args.Error(1)
}

type mockGroupService struct {
	mock.Mock
}

func (m *mockGroupService) Create(ctx context.Context, callerID uint, req domain.CreateGroupReq) (*domain.GroupSummary, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GroupSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGroupService) Rename(ctx context.Context, callerID, groupID uint, name string) (*domain.GroupSummary, error) {
	args := m.Called(ctx, callerID, groupID, name)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GroupSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGroupService) Leave(ctx context.Context, callerID, groupID uint) error {
	return m.Called(ctx, callerID, groupID).Error(0)
}

// tokenTable token string -> user id
type tokenTable map[string]uint

func (t tokenTable) Resolve(token string) (uint, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}
