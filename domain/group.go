// Package domain contains core concepts of the chat system.
// This file defines Group entities and membership rules.
package domain

import "time"

// GroupID identifies a durable group.
type GroupID string

// Group is the durable side of group chat: who *may* belong.
// The live room (who actively joined the real-time feed) is tracked
// separately by the runtime and is always a subset of Members.
type Group struct {
	ID        GroupID   `json:"id"`
	Name      string    `json:"name"`
	CreatorID UserID    `json:"creatorId"`
	Members   []UserID  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g Group) HasMember(user UserID) bool {
	for _, m := range g.Members {
		if m == user {
			return true
		}
	}
	return false
}
