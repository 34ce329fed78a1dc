package app

import (
	"context"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create mock create message, assigns an id like the database would
func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil && msg.ID == 0 {
		msg.ID = 1000
	}
	return args.Error(0)
}

// CreateBatch mock create messages
func (m *MockMessageRepository) CreateBatch(ctx context.Context, msgs []*domain.Message) error {
	args := m.Called(ctx, msgs)
	for i, msg := range msgs {
		if msg.ID == 0 {
			msg.ID = uint(2000 + i)
		}
	}
	return args.Error(0)
}

// GetByID mock get message
func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListGroup mock list group messages
func (m *MockMessageRepository) ListGroup(ctx context.Context, groupID uint, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, groupID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// ListDirect mock list dm messages
func (m *MockMessageRepository) ListDirect(ctx context.Context, userID, otherID uint, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, userID, otherID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// MarkDirectRead mock flip read flags
func (m *MockMessageRepository) MarkDirectRead(ctx context.Context, senderID, recipientID uint) (int64, error) {
	args := m.Called(ctx, senderID, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// MarkDeletedGlobally mock global delete
func (m *MockMessageRepository) MarkDeletedGlobally(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// Hide mock hide for one viewer
func (m *MockMessageRepository) Hide(ctx context.Context, messageID, userID uint) error {
	return m.Called(ctx, messageID, userID).Error(0)
}

// HiddenAmong mock hidden set
func (m *MockMessageRepository) HiddenAmong(ctx context.Context, userID uint, messageIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, userID, messageIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

// HideGroup mock clear group
func (m *MockMessageRepository) HideGroup(ctx context.Context, groupID, userID uint) (int64, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// HideDirect mock clear dm
func (m *MockMessageRepository) HideDirect(ctx context.Context, userID, otherID uint) (int64, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Get(0).(int64), args.Error(1)
}

// CountDirectUnread mock dm unread aggregate
func (m *MockMessageRepository) CountDirectUnread(ctx context.Context, recipientID uint) ([]domain.UnreadCount, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).([]domain.UnreadCount), args.Error(1)
}

// CountGroupUnread mock group unread aggregate
func (m *MockMessageRepository) CountGroupUnread(ctx context.Context, userID uint) ([]domain.UnreadCount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UnreadCount), args.Error(1)
}

// MockGroupRepository mock GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

// Create mock create group
func (m *MockGroupRepository) Create(ctx context.Context, g *domain.Group) error {
	args := m.Called(ctx, g)
	if args.Error(0) == nil && g.ID == 0 {
		g.ID = 50
	}
	return args.Error(0)
}

// GetByID mock get group
func (m *MockGroupRepository) GetByID(ctx context.Context, id uint) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetForUpdate mock locked get group
func (m *MockGroupRepository) GetForUpdate(ctx context.Context, id uint) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// Rename mock rename
func (m *MockGroupRepository) Rename(ctx context.Context, id uint, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

// AddMembers mock add members
func (m *MockGroupRepository) AddMembers(ctx context.Context, members []domain.GroupMember) error {
	return m.Called(ctx, members).Error(0)
}

// IsMember mock membership check
func (m *MockGroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

// MemberGroupIDs mock filter member groups
func (m *MockGroupRepository) MemberGroupIDs(ctx context.Context, userID uint, groupIDs []uint) ([]uint, error) {
	args := m.Called(ctx, userID, groupIDs)
	if args.Get(0) != nil {
		return args.Get(0).([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

// RemoveMember mock leave
func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	return m.Called(ctx, groupID, userID).Error(0)
}

// CountMembers mock count members
func (m *MockGroupRepository) CountMembers(ctx context.Context, groupID uint) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// AdvanceCursor mock cursor advance
func (m *MockGroupRepository) AdvanceCursor(ctx context.Context, groupID, userID uint, at time.Time) error {
	return m.Called(ctx, groupID, userID, at).Error(0)
}

// ListForUser mock list groups
func (m *MockGroupRepository) ListForUser(ctx context.Context, userID uint) ([]domain.GroupSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.GroupSummary), args.Error(1)
}

// MockUnitOfWork runs fn directly against the mock repositories
type MockUnitOfWork struct {
	Messages *MockMessageRepository
	Groups   *MockGroupRepository
	TxErr    error
}

// NewMockUnitOfWork create MockUnitOfWork
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{Messages: new(MockMessageRepository), Groups: new(MockGroupRepository)}
}

// Repos mock repos
func (u *MockUnitOfWork) Repos() repository.Repos {
	return repository.Repos{Messages: u.Messages, Groups: u.Groups}
}

// WithinTx mock transaction
func (u *MockUnitOfWork) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	if u.TxErr != nil {
		return u.TxErr
	}
	return fn(u.Repos())
}

// MockIdentityDirectory mock IdentityDirectory
type MockIdentityDirectory struct {
	mock.Mock
}

// Resolve mock resolve token
func (m *MockIdentityDirectory) Resolve(tokenStr string) (uint, error) {
	args := m.Called(tokenStr)
	return args.Get(0).(uint), args.Error(1)
}

// Lookup mock lookup user
func (m *MockIdentityDirectory) Lookup(ctx context.Context, userID uint) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// LookupMany mock lookup users
func (m *MockIdentityDirectory) LookupMany(ctx context.Context, ids []uint) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListTenantUsers mock list company users
func (m *MockIdentityDirectory) ListTenantUsers(ctx context.Context, companyID, excludeID uint) ([]domain.User, error) {
	args := m.Called(ctx, companyID, excludeID)
	return args.Get(0).([]domain.User), args.Error(1)
}

// DisplayNames mock names
func (m *MockIdentityDirectory) DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint]string), args.Error(1)
}

// MockResponder mock Responder
type MockResponder struct {
	mock.Mock
}

// Reply mock reply
func (m *MockResponder) Reply(ctx context.Context, userID uint, text string) (string, error) {
	args := m.Called(ctx, userID, text)
	return args.String(0), args.Error(1)
}

// MockBotDispatcher mock BotDispatcher
type MockBotDispatcher struct {
	mock.Mock
}

// Dispatch mock dispatch
func (m *MockBotDispatcher) Dispatch(ctx context.Context, bot *domain.User, userID uint, trigger *domain.Message) {
	m.Called(ctx, bot, userID, trigger)
}

// MockRabbitRepo mock database.RabbitRepo
type MockRabbitRepo struct {
	mock.Mock
}

// DeclareQueue mock declare
func (m *MockRabbitRepo) DeclareQueue(name string) error {
	return m.Called(name).Error(0)
}

// Publish mock publish
func (m *MockRabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

// Consume mock consume
func (m *MockRabbitRepo) Consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	args := m.Called(queue, consumer)
	if args.Get(0) != nil {
		return args.Get(0).(<-chan amqp.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAcknowledger records ack / nack on a delivery
type MockAcknowledger struct {
	mock.Mock
}

// Ack mock ack
func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	return m.Called(tag, multiple).Error(0)
}

// Nack mock nack
func (m *MockAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	return m.Called(tag, multiple, requeue).Error(0)
}

// Reject mock reject
func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	return m.Called(tag, requeue).Error(0)
}

// fixedClock deterministic Clock
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}
