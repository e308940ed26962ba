//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/repositories"
)

// PostMessageCommand is a message sending intent, before validation,
// moderation, and persistence.
type PostMessageCommand struct {
	SenderID    domain.UserID `validate:"required"`
	RecipientID domain.UserID `validate:"required_without=GroupID,excluded_with=GroupID"`
	GroupID     domain.GroupID
	Text        string `validate:"required_without=Image,max=4096"`
	Image       string
}

type GetMessagesCommand struct {
	UserID domain.UserID
	// Exactly one of PeerID (direct history) or GroupID (group history).
	PeerID  domain.UserID
	GroupID domain.GroupID
	Cursor  *string
}

type IChatService interface {
	PostMessage(ctx context.Context, cmd PostMessageCommand) (domain.Message, error)
	GetMessages(cmd GetMessagesCommand) ([]domain.Message, *string, error)
}

// ChatService owns the send path: validate, moderate, persist, then hand
// the committed message to the router. The order is the system's strongest
// invariant: the router is never invoked for a message the store refused.
type ChatService struct {
	log       *slog.Logger
	validate  *validator.Validate
	moderator moderation.Moderator
	messages  repositories.IMessageRepository
	groups    repositories.IGroupRepository
	router    contract.IRouter
}

func NewChatService(log *slog.Logger, moderator moderation.Moderator,
	messages repositories.IMessageRepository, groups repositories.IGroupRepository,
	router contract.IRouter) *ChatService {
	return &ChatService{
		log:       log,
		validate:  validator.New(),
		moderator: moderator,
		messages:  messages,
		groups:    groups,
		router:    router,
	}
}

// PostMessage runs the full send path and returns the persisted message.
// Fan-out happens before returning but its per-target failures never
// surface here: the caller's response is independent of delivery.
func (s *ChatService) PostMessage(ctx context.Context, cmd PostMessageCommand) (domain.Message, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}

	if cmd.GroupID != "" {
		member, err := s.groups.IsMember(cmd.GroupID, cmd.SenderID)
		if err != nil {
			return domain.Message{}, err
		}
		if !member {
			return domain.Message{}, errors.ErrNotGroupMember
		}
	}

	text := cmd.Text
	if text != "" {
		censored, foundWords := s.moderator.Censor(text)
		if len(foundWords) > 0 {
			info := whatlanggo.Detect(text)
			s.log.Warn("Message censored",
				"sender_id", cmd.SenderID,
				"words", len(foundWords),
				"lang", info.Lang.Iso6391())
		}
		text = censored
	}

	msg := domain.Message{
		ID:          uuid.New(),
		SenderID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		GroupID:     cmd.GroupID,
		Text:        text,
		Image:       cmd.Image,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messages.StoreMessage(msg); err != nil {
		// Persistence failed: no partial fan-out of unpersisted data.
		return domain.Message{}, err
	}

	s.router.Route(ctx, msg)
	return msg, nil
}

// GetMessages returns one history page of a direct or group conversation.
// Group history requires durable membership.
func (s *ChatService) GetMessages(cmd GetMessagesCommand) ([]domain.Message, *string, error) {
	var conversation string
	switch {
	case cmd.GroupID != "":
		member, err := s.groups.IsMember(cmd.GroupID, cmd.UserID)
		if err != nil {
			return nil, nil, err
		}
		if !member {
			return nil, nil, errors.ErrNotGroupMember
		}
		conversation = domain.Message{GroupID: cmd.GroupID}.ConversationKey()
	case cmd.PeerID != "":
		conversation = domain.Message{SenderID: cmd.UserID, RecipientID: cmd.PeerID}.ConversationKey()
	default:
		return nil, nil, errors.ErrInvalidMessage
	}

	return s.messages.GetMessages(conversation, cmd.Cursor)
}
