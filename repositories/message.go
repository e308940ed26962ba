//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/domain"
)

type IMessageRepository interface {
	StoreMessage(msg domain.Message) error
	GetMessages(conversation string, cursor *string) ([]domain.Message, *string, error)
	DeleteConversation(conversation string) error
}

// MessageRepository persists chat history in BadgerDB. It is the durable
// collaborator of the routing core: a message reaches the router only after
// StoreMessage returned nil.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// messageRecord is the on-disk shape, JSON-encoded.
type messageRecord struct {
	ID          uuid.UUID `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	Text        string    `json:"text,omitempty"`
	Image       string    `json:"image,omitempty"`
	At          int64     `json:"at"`
}

// StoreMessage persists a message under "msg:{conversation}:{timestamp_padded}:{uuid}".
// The 19-digit zero padding makes lexicographical order chronological, and
// the UUID suffix disconnects collisions when two messages share a nanosecond.
func (m MessageRepository) StoreMessage(msg domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		msg.ConversationKey(),
		msg.CreatedAt.UnixNano(),
		msg.ID,
	)
	bytes, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves one page of a conversation, newest first, using a
// reverse prefix scan. The returned cursor resumes the scan where this page
// stopped; a nil cursor starts from the most recent message.
func (m MessageRepository) GetMessages(conversation string, cursor *string) ([]domain.Message, *string, error) {
	var rawMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversation)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// An empty page means the scan is exhausted: a nil cursor tells the
	// client there is no further history to request.
	if lastKey == "" {
		return nil, nil, nil
	}

	var messages []domain.Message
	for _, b := range rawMessages {
		var record messageRecord
		if err = json.Unmarshal(b, &record); err != nil {
			return nil, nil, err
		}
		messages = append(messages, toMessage(record))
	}
	return messages, lo.ToPtr(lastKey), nil
}

// DeleteConversation drops an entire history, keys and values. Used when
// the conversation's owning group is deleted.
func (m MessageRepository) DeleteConversation(conversation string) error {
	prefix := []byte(fmt.Sprintf("msg:%s:", conversation))
	return m.db.Update(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func fromMessage(msg domain.Message) messageRecord {
	return messageRecord{
		ID:          msg.ID,
		SenderID:    string(msg.SenderID),
		RecipientID: string(msg.RecipientID),
		GroupID:     string(msg.GroupID),
		Text:        msg.Text,
		Image:       msg.Image,
		At:          msg.CreatedAt.UnixNano(),
	}
}

func toMessage(record messageRecord) domain.Message {
	return domain.Message{
		ID:          record.ID,
		SenderID:    domain.UserID(record.SenderID),
		RecipientID: domain.UserID(record.RecipientID),
		GroupID:     domain.GroupID(record.GroupID),
		Text:        record.Text,
		Image:       record.Image,
		CreatedAt:   time.Unix(0, record.At).UTC(),
	}
}
