// Package event defines the closed set of real-time events pushed to
// connected clients. Payload shapes are fixed per variant and dispatched by
// event name, never by ad hoc shape inspection.
package event

import (
	"chat-relay/domain"
)

const (
	PresenceUpdateName  = "presenceUpdate"
	NewMessageName      = "newMessage"
	UserJoinedGroupName = "userJoinedGroup"
	UserLeftGroupName   = "userLeftGroup"
)

// DomainEvent is anything the delivery gateway can push to a client.
type DomainEvent interface {
	EventName() string
}

// PresenceUpdate carries the full online-user snapshot. It is broadcast to
// every connected client after each registry change so all sidebars converge
// on the same global view.
type PresenceUpdate struct {
	OnlineUserIDs []string `json:"onlineUserIds"`
}

func (PresenceUpdate) EventName() string { return PresenceUpdateName }

// NewMessage wraps a durably persisted message on its way to resolved
// targets. The embedded Message marshals flat, matching the stored record.
type NewMessage struct {
	domain.Message
}

func (NewMessage) EventName() string { return NewMessageName }

// UserJoinedGroup notifies current room subscribers that another live
// session joined the room feed.
type UserJoinedGroup struct {
	UserID  domain.UserID  `json:"userId"`
	GroupID domain.GroupID `json:"groupId"`
}

func (UserJoinedGroup) EventName() string { return UserJoinedGroupName }

// UserLeftGroup is the counterpart of UserJoinedGroup.
type UserLeftGroup struct {
	UserID  domain.UserID  `json:"userId"`
	GroupID domain.GroupID `json:"groupId"`
}

func (UserLeftGroup) EventName() string { return UserLeftGroupName }
