package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/errors"
)

func Test_CreateGroup_Creator_Is_Member(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	group, err := repository.CreateGroup("gophers", "alice", []domain.UserID{"bob", "bob"})
	req.NoError(err)
	req.Equal([]domain.UserID{"alice", "bob"}, group.Members)

	fetched, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.Equal(group, fetched)
}

func Test_Membership_Lifecycle(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	group, err := repository.CreateGroup("gophers", "alice", nil)
	req.NoError(err)

	// Given a user not yet in the group
	member, err := repository.IsMember(group.ID, "clara")
	req.NoError(err)
	req.False(member)

	// When she joins twice
	req.NoError(repository.AddMember(group.ID, "clara"))
	req.NoError(repository.AddMember(group.ID, "clara"))

	// Then she counts once
	fetched, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{"alice", "clara"}, fetched.Members)

	// When she leaves
	req.NoError(repository.RemoveMember(group.ID, "clara"))
	member, err = repository.IsMember(group.ID, "clara")
	req.NoError(err)
	req.False(member)
}

func Test_GroupsFor_Filters_By_Membership(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	devs, err := repository.CreateGroup("devs", "alice", []domain.UserID{"bob"})
	req.NoError(err)
	_, err = repository.CreateGroup("ops", "bob", nil)
	req.NoError(err)

	groups, err := repository.GroupsFor("alice")
	req.NoError(err)
	req.Len(groups, 1)
	req.Equal(devs.ID, groups[0].ID)

	groups, err = repository.GroupsFor("bob")
	req.NoError(err)
	req.Len(groups, 2)

	groups, err = repository.GroupsFor("stranger")
	req.NoError(err)
	req.Empty(groups)
}

func Test_Rename_Group(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	group, err := repository.CreateGroup("devs", "alice", nil)
	req.NoError(err)

	renamed, err := repository.Rename(group.ID, "platform")
	req.NoError(err)
	req.Equal("platform", renamed.Name)
	req.Equal(group.Members, renamed.Members)

	fetched, err := repository.GetGroup(group.ID)
	req.NoError(err)
	req.Equal("platform", fetched.Name)
}

func Test_Delete_Group(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	group, err := repository.CreateGroup("devs", "alice", nil)
	req.NoError(err)

	req.NoError(repository.DeleteGroup(group.ID))

	_, err = repository.GetGroup(group.ID)
	req.ErrorIs(err, errors.ErrUnknownGroup)

	req.ErrorIs(repository.DeleteGroup(group.ID), errors.ErrUnknownGroup)
}

func Test_Unknown_Group(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openTestDB(t))

	_, err := repository.GetGroup("nope")
	req.ErrorIs(err, errors.ErrUnknownGroup)

	_, err = repository.IsMember("nope", "alice")
	req.ErrorIs(err, errors.ErrUnknownGroup)
}
