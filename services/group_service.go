//go:generate go run go.uber.org/mock/mockgen -source=group_service.go -destination=../mocks/mock_group_service.go -package=mocks
package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
)

type IGroupService interface {
	CreateGroup(name string, creator domain.UserID, members []domain.UserID) (domain.Group, error)
	GetGroup(id domain.GroupID) (domain.Group, error)
	GroupsFor(user domain.UserID) ([]domain.Group, error)
	UpdateGroup(id domain.GroupID, actor domain.UserID, name string) (domain.Group, error)
	DeleteGroup(id domain.GroupID, actor domain.UserID) error
	Join(id domain.GroupID, user domain.UserID) error
	Leave(id domain.GroupID, user domain.UserID) error
	IsMember(id domain.GroupID, user domain.UserID) (bool, error)
}

// GroupService manages durable group membership. The live room feed is the
// gateway's business; this service only answers who may join it.
type GroupService struct {
	groups   repositories.IGroupRepository
	messages repositories.IMessageRepository
}

func NewGroupService(groups repositories.IGroupRepository,
	messages repositories.IMessageRepository) *GroupService {
	return &GroupService{groups: groups, messages: messages}
}

func (s *GroupService) CreateGroup(name string, creator domain.UserID, members []domain.UserID) (domain.Group, error) {
	return s.groups.CreateGroup(name, creator, members)
}

func (s *GroupService) GetGroup(id domain.GroupID) (domain.Group, error) {
	return s.groups.GetGroup(id)
}

func (s *GroupService) GroupsFor(user domain.UserID) ([]domain.Group, error) {
	return s.groups.GroupsFor(user)
}

// UpdateGroup renames a group. Only the creator may do that.
func (s *GroupService) UpdateGroup(id domain.GroupID, actor domain.UserID, name string) (domain.Group, error) {
	if err := s.requireCreator(id, actor); err != nil {
		return domain.Group{}, err
	}
	return s.groups.Rename(id, name)
}

// DeleteGroup removes the group record and its entire message history.
func (s *GroupService) DeleteGroup(id domain.GroupID, actor domain.UserID) error {
	if err := s.requireCreator(id, actor); err != nil {
		return err
	}
	if err := s.groups.DeleteGroup(id); err != nil {
		return err
	}
	conversation := domain.Message{GroupID: id}.ConversationKey()
	return s.messages.DeleteConversation(conversation)
}

func (s *GroupService) Join(id domain.GroupID, user domain.UserID) error {
	return s.groups.AddMember(id, user)
}

func (s *GroupService) Leave(id domain.GroupID, user domain.UserID) error {
	return s.groups.RemoveMember(id, user)
}

func (s *GroupService) IsMember(id domain.GroupID, user domain.UserID) (bool, error) {
	return s.groups.IsMember(id, user)
}

func (s *GroupService) requireCreator(id domain.GroupID, actor domain.UserID) error {
	group, err := s.groups.GetGroup(id)
	if err != nil {
		return err
	}
	if group.CreatorID != actor {
		return errors.ErrNotGroupCreator
	}
	return nil
}
