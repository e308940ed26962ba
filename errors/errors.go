package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Delivery failures stay inside the routing core: logged per target,
	// never propagated to the original caller.
	ErrSinkClosed = fmt.Errorf("event sink closed")

	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrTokenInvalid       = fmt.Errorf("token invalid or expired")

	ErrEmptyWordList = fmt.Errorf("no moderation words have been found")

	ErrUnknownGroup    = fmt.Errorf("unknown group")
	ErrNotGroupMember  = fmt.Errorf("user is not a member of the group")
	ErrNotGroupCreator = fmt.Errorf("only the group creator may manage the group")
	ErrInvalidMessage  = fmt.Errorf("invalid message draft")
)
