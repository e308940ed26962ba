// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated before they enter the routing core.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event, snapshotted after durable
// persistence. The routing core only reads and forwards it.
//
// Exactly one of RecipientID (direct message) or GroupID (group message)
// is set; IsGroup dispatches between the two.
type Message struct {
	ID          uuid.UUID `json:"id"`
	SenderID    UserID    `json:"senderId"`
	RecipientID UserID    `json:"recipientId,omitempty"`
	GroupID     GroupID   `json:"groupId,omitempty"`
	Text        string    `json:"text,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m Message) IsGroup() bool {
	return m.GroupID != ""
}

// ConversationKey identifies the durable conversation a message belongs to.
// Group messages share the group key; direct messages share a key built from
// the ordered pair of participants, so A->B and B->A land in the same history.
func (m Message) ConversationKey() string {
	if m.IsGroup() {
		return "g:" + string(m.GroupID)
	}
	a, b := string(m.SenderID), string(m.RecipientID)
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return "d:" + a + ":" + b
}
