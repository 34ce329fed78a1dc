package app

import (
	"context"
	"errors"
	"testing"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	errprocess "team_chat_service/pkg/err"
	"team_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGroupFixture() (*MockUnitOfWork, *MockIdentityDirectory, *GroupUseCase) {
	logger.SetNewNop()
	uow := NewMockUnitOfWork()
	identity := new(MockIdentityDirectory)
	return uow, identity, NewGroupUseCase(uow, identity, &fixedClock{now: testNow})
}

func TestGroupUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creator without company", func(t *testing.T) {
		_, identity, uc := newGroupFixture()
		identity.On("Lookup", ctx, uint(1)).Return(testUser(1, 0, "Amy"), nil)

		_, err := uc.Create(ctx, 1, domain.CreateGroupReq{Name: "Ops"})
		assert.True(t, errprocess.Is(err, errprocess.KindPermission))
	})

	t.Run("blank name", func(t *testing.T) {
		_, identity, uc := newGroupFixture()
		identity.On("Lookup", ctx, uint(1)).Return(testUser(1, 10, "Amy"), nil)

		_, err := uc.Create(ctx, 1, domain.CreateGroupReq{Name: "  "})
		assert.True(t, errprocess.Is(err, errprocess.KindValidation))
	})

	t.Run("keeps only active same company members plus creator", func(t *testing.T) {
		uow, identity, uc := newGroupFixture()
		inactive := *testUser(4, 10, "Old")
		inactive.IsActive = false
		identity.On("Lookup", ctx, uint(1)).Return(testUser(1, 10, "Amy"), nil)
		identity.On("LookupMany", ctx, []uint{2, 3, 4}).Return([]domain.User{
			*testUser(2, 10, "Bob"), *testUser(3, 20, "Zed"), inactive,
		}, nil)
		uow.Groups.On("Create", ctx, mock.MatchedBy(func(g *domain.Group) bool {
			return g.Name == "Launch" && g.CreatedBy == 1
		})).Return(nil)
		uow.Groups.On("AddMembers", ctx, mock.MatchedBy(func(ms []domain.GroupMember) bool {
			if len(ms) != 2 || ms[0].UserID != 1 || ms[1].UserID != 2 {
				return false
			}
			for _, m := range ms {
				if m.GroupID != 50 || m.LastReadAt == nil || !m.LastReadAt.Equal(testNow) {
					return false
				}
			}
			return true
		})).Return(nil)

		g, err := uc.Create(ctx, 1, domain.CreateGroupReq{Name: " Launch ", MemberIDs: []uint{2, 3, 1, 2, 4, 0}})

		require.NoError(t, err)
		assert.Equal(t, uint(50), g.ID)
		assert.Equal(t, "Launch", g.Name)
		assert.Equal(t, int64(2), g.MembersCount)
		uow.Groups.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		uow, identity, uc := newGroupFixture()
		identity.On("Lookup", ctx, uint(1)).Return(testUser(1, 10, "Amy"), nil)
		identity.On("LookupMany", ctx, []uint{}).Return([]domain.User{}, nil)
		uow.Groups.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := uc.Create(ctx, 1, domain.CreateGroupReq{Name: "Solo"})

		assert.Equal(t, 500, errprocess.StatusCode(err))
		uow.Groups.AssertNotCalled(t, "AddMembers", mock.Anything, mock.Anything)
	})
}

func TestGroupUseCase_Rename(t *testing.T) {
	ctx := context.Background()
	group := func() *domain.Group { return &domain.Group{ID: 7, Name: "Old", CreatedBy: 1, CreatedAt: testNow} }

	t.Run("blank name", func(t *testing.T) {
		_, _, uc := newGroupFixture()
		_, err := uc.Rename(ctx, 1, 7, "")
		assert.True(t, errprocess.Is(err, errprocess.KindValidation))
	})

	t.Run("unknown group", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetByID", ctx, uint(7)).Return(nil, repository.ErrNotFound)

		_, err := uc.Rename(ctx, 1, 7, "New")
		assert.True(t, errprocess.Is(err, errprocess.KindNotFound))
	})

	t.Run("non member", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetByID", ctx, uint(7)).Return(group(), nil)
		uow.Groups.On("IsMember", ctx, uint(7), uint(9)).Return(false, nil)

		_, err := uc.Rename(ctx, 9, 7, "New")
		assert.True(t, errprocess.Is(err, errprocess.KindPermission))
		uow.Groups.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("member renames", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetByID", ctx, uint(7)).Return(group(), nil)
		uow.Groups.On("IsMember", ctx, uint(7), uint(2)).Return(true, nil)
		uow.Groups.On("Rename", ctx, uint(7), "New").Return(nil)
		uow.Groups.On("CountMembers", ctx, uint(7)).Return(int64(3), nil)

		g, err := uc.Rename(ctx, 2, 7, " New ")

		require.NoError(t, err)
		assert.Equal(t, "New", g.Name)
		assert.Equal(t, int64(3), g.MembersCount)
	})
}

func TestGroupUseCase_Leave(t *testing.T) {
	ctx := context.Background()
	group := &domain.Group{ID: 7, Name: "Ops"}

	t.Run("unknown group", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetForUpdate", ctx, uint(7)).Return(nil, repository.ErrNotFound)

		err := uc.Leave(ctx, 1, 7)
		assert.True(t, errprocess.Is(err, errprocess.KindNotFound))
	})

	t.Run("non member", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetForUpdate", ctx, uint(7)).Return(group, nil)
		uow.Groups.On("IsMember", ctx, uint(7), uint(9)).Return(false, nil)

		err := uc.Leave(ctx, 9, 7)
		assert.True(t, errprocess.Is(err, errprocess.KindValidation))
	})

	t.Run("removes only the caller membership", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetForUpdate", ctx, uint(7)).Return(group, nil)
		uow.Groups.On("IsMember", ctx, uint(7), uint(1)).Return(true, nil)
		uow.Groups.On("RemoveMember", ctx, uint(7), uint(1)).Return(nil)

		require.NoError(t, uc.Leave(ctx, 1, 7))
		uow.Groups.AssertExpectations(t)
		uow.Groups.AssertNumberOfCalls(t, "CountMembers", 0)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		uow, _, uc := newGroupFixture()
		uow.Groups.On("GetForUpdate", ctx, uint(7)).Return(group, nil)
		uow.Groups.On("IsMember", ctx, uint(7), uint(1)).Return(true, nil)
		uow.Groups.On("RemoveMember", ctx, uint(7), uint(1)).Return(errors.New("conn reset"))

		err := uc.Leave(ctx, 1, 7)
		assert.Equal(t, 500, errprocess.StatusCode(err))
	})
}
