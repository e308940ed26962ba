//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IGroupRepository interface {
	CreateGroup(name string, creator domain.UserID, members []domain.UserID) (domain.Group, error)
	GetGroup(id domain.GroupID) (domain.Group, error)
	GroupsFor(user domain.UserID) ([]domain.Group, error)
	Rename(id domain.GroupID, name string) (domain.Group, error)
	DeleteGroup(id domain.GroupID) error
	AddMember(id domain.GroupID, user domain.UserID) error
	RemoveMember(id domain.GroupID, user domain.UserID) error
	IsMember(id domain.GroupID, user domain.UserID) (bool, error)
}

// GroupRepository stores durable group membership: who *may* belong.
// The live room feed is a runtime concern and never touches this store.
type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) IGroupRepository {
	return &GroupRepository{db: db}
}

func groupKey(id domain.GroupID) []byte {
	return []byte("group:" + string(id))
}

// CreateGroup persists a new group. The creator is always a member, listed
// first; duplicates in the initial member list are collapsed.
func (g GroupRepository) CreateGroup(name string, creator domain.UserID, members []domain.UserID) (domain.Group, error) {
	group := domain.Group{
		ID:        domain.GroupID(uuid.NewString()),
		Name:      name,
		CreatorID: creator,
		Members:   lo.Uniq(append([]domain.UserID{creator}, members...)),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(group)
	if err != nil {
		return domain.Group{}, err
	}

	err = g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupKey(group.ID), data)
	})
	return group, err
}

func (g GroupRepository) GetGroup(id domain.GroupID) (domain.Group, error) {
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return errors.ErrUnknownGroup
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &group)
		})
	})
	return group, err
}

// GroupsFor scans all group records and keeps those the user belongs to.
// The creator is always in Members, so one filter covers both roles.
func (g GroupRepository) GroupsFor(user domain.UserID) ([]domain.Group, error) {
	var groups []domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		prefix := []byte("group:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var group domain.Group
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &group)
			}); err != nil {
				return err
			}
			if group.HasMember(user) {
				groups = append(groups, group)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (g GroupRepository) Rename(id domain.GroupID, name string) (domain.Group, error) {
	return g.update(id, func(group *domain.Group) {
		group.Name = name
	})
}

func (g GroupRepository) DeleteGroup(id domain.GroupID) error {
	return g.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(groupKey(id)); err != nil {
			return errors.ErrUnknownGroup
		}
		return txn.Delete(groupKey(id))
	})
}

// AddMember records durable membership. Idempotent: re-joining a group the
// user already belongs to rewrites the same record.
func (g GroupRepository) AddMember(id domain.GroupID, user domain.UserID) error {
	_, err := g.update(id, func(group *domain.Group) {
		group.Members = lo.Uniq(append(group.Members, user))
	})
	return err
}

func (g GroupRepository) RemoveMember(id domain.GroupID, user domain.UserID) error {
	_, err := g.update(id, func(group *domain.Group) {
		group.Members = lo.Without(group.Members, user)
	})
	return err
}

// IsMember is the check consulted before a live join signal is accepted.
func (g GroupRepository) IsMember(id domain.GroupID, user domain.UserID) (bool, error) {
	group, err := g.GetGroup(id)
	if err != nil {
		return false, err
	}
	return group.HasMember(user), nil
}

// update applies a mutation to the stored record inside one transaction,
// so concurrent membership changes serialize on badger's conflict check.
// The mutated group is returned as it was written.
func (g GroupRepository) update(id domain.GroupID, mutate func(*domain.Group)) (domain.Group, error) {
	var group domain.Group
	err := g.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return errors.ErrUnknownGroup
		}
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &group)
		}); err != nil {
			return err
		}

		mutate(&group)

		data, err := json.Marshal(group)
		if err != nil {
			return err
		}
		return txn.Set(groupKey(id), data)
	})
	if err != nil {
		return domain.Group{}, err
	}
	return group, nil
}
