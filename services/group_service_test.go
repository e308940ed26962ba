package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"
)

type groupFixture struct {
	svc      *services.GroupService
	groups   *mocks.MockIGroupRepository
	messages *mocks.MockIMessageRepository
}

func newGroupFixture(t *testing.T) groupFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	groups := mocks.NewMockIGroupRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)

	return groupFixture{
		svc:      services.NewGroupService(groups, messages),
		groups:   groups,
		messages: messages,
	}
}

func TestGroupService_UpdateGroup(t *testing.T) {
	t.Run("should rename when the caller created the group", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("g1")).
			Return(domain.Group{ID: "g1", Name: "devs", CreatorID: "alice"}, nil)
		f.groups.EXPECT().
			Rename(domain.GroupID("g1"), "platform").
			Return(domain.Group{ID: "g1", Name: "platform", CreatorID: "alice"}, nil)

		group, err := f.svc.UpdateGroup("g1", "alice", "platform")

		req.NoError(err)
		req.Equal("platform", group.Name)
	})

	t.Run("should refuse a caller who is not the creator", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("g1")).
			Return(domain.Group{ID: "g1", CreatorID: "alice"}, nil)
		f.groups.EXPECT().Rename(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.UpdateGroup("g1", "bob", "platform")

		req.ErrorIs(err, errors.ErrNotGroupCreator)
	})
}

func TestGroupService_DeleteGroup(t *testing.T) {
	t.Run("should delete the group and its conversation history", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("g1")).
			Return(domain.Group{ID: "g1", CreatorID: "alice"}, nil)
		gomock.InOrder(
			f.groups.EXPECT().DeleteGroup(domain.GroupID("g1")).Return(nil),
			f.messages.EXPECT().
				DeleteConversation(domain.Message{GroupID: "g1"}.ConversationKey()).
				Return(nil),
		)

		req.NoError(f.svc.DeleteGroup("g1", "alice"))
	})

	t.Run("should refuse a caller who is not the creator", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("g1")).
			Return(domain.Group{ID: "g1", CreatorID: "alice"}, nil)
		f.groups.EXPECT().DeleteGroup(gomock.Any()).Times(0)
		f.messages.EXPECT().DeleteConversation(gomock.Any()).Times(0)

		req.ErrorIs(f.svc.DeleteGroup("g1", "mallory"), errors.ErrNotGroupCreator)
	})

	t.Run("should keep history when the group record cannot be removed", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("g1")).
			Return(domain.Group{ID: "g1", CreatorID: "alice"}, nil)
		f.groups.EXPECT().DeleteGroup(domain.GroupID("g1")).Return(errors.ErrUnknownGroup)
		f.messages.EXPECT().DeleteConversation(gomock.Any()).Times(0)

		req.ErrorIs(f.svc.DeleteGroup("g1", "alice"), errors.ErrUnknownGroup)
	})
}

func TestGroupService_GroupsFor(t *testing.T) {
	t.Run("should pass the membership listing through", func(t *testing.T) {
		req := require.New(t)
		f := newGroupFixture(t)

		f.groups.EXPECT().
			GroupsFor(domain.UserID("alice")).
			Return([]domain.Group{{ID: "g1"}, {ID: "g2"}}, nil)

		groups, err := f.svc.GroupsFor("alice")

		req.NoError(err)
		req.Len(groups, 2)
	})
}
