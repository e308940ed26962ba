// Package domain contains core concepts of the chat system.
// This file defines user identity. No runtime, network, or UI logic here.
package domain

// UserID is the opaque stable identifier supplied by the auth collaborator
// at connection time. The routing core never interprets it; it is a foreign
// key into the durable user store.
type UserID string
