package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"
)

type apiFixture struct {
	mux    *http.ServeMux
	auth   *mocks.MockIAuthService
	chat   *mocks.MockIChatService
	groups *mocks.MockIGroupService
	tokens *auth.TokenManager
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	authSvc := mocks.NewMockIAuthService(ctrl)
	chatSvc := mocks.NewMockIChatService(ctrl)
	groupSvc := mocks.NewMockIGroupService(ctrl)
	tokens := auth.NewTokenManager("api-test-secret", time.Hour)

	a := NewAPI(slog.Default(), authSvc, chatSvc, groupSvc)
	mux := a.Routes(tokens, func(http.ResponseWriter, *http.Request) {})

	return apiFixture{mux: mux, auth: authSvc, chat: chatSvc, groups: groupSvc, tokens: tokens}
}

func (f apiFixture) do(t *testing.T, method, target, body string, user domain.UserID) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	r := httptest.NewRequest(method, target, reader)
	if user != "" {
		token, err := f.tokens.Generate(string(user), []string{"user"})
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func TestAPI_Auth(t *testing.T) {
	t.Run("should return a token on successful registration", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.auth.EXPECT().
			Register("alice@example.com", "ComplexPass123!").
			Return(services.Token("jwt-token"), nil)

		w := f.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"alice@example.com","password":"ComplexPass123!"}`, "")

		req.Equal(http.StatusCreated, w.Code)
		var body tokenResponse
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Equal("jwt-token", body.Token)
	})

	t.Run("should map duplicate registration to conflict", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.auth.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(services.Token(""), errors.ErrUserAlreadyExists)

		w := f.do(t, http.MethodPost, "/api/auth/register",
			`{"email":"dup@example.com","password":"ComplexPass123!"}`, "")

		req.Equal(http.StatusConflict, w.Code)
	})

	t.Run("should map bad credentials to unauthorized", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.auth.EXPECT().
			Login(gomock.Any(), gomock.Any()).
			Return(services.Token(""), errors.ErrInvalidCredentials)

		w := f.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"wrong"}`, "")

		req.Equal(http.StatusUnauthorized, w.Code)
	})
}

func TestAPI_Messages(t *testing.T) {
	t.Run("should post a message as the authenticated sender", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.chat.EXPECT().
			PostMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, cmd services.PostMessageCommand) (domain.Message, error) {
				// Sender identity always comes from the token, never the body.
				req.Equal(domain.UserID("alice"), cmd.SenderID)
				req.Equal(domain.UserID("bob"), cmd.RecipientID)
				return domain.Message{SenderID: cmd.SenderID, RecipientID: cmd.RecipientID, Text: cmd.Text}, nil
			})

		w := f.do(t, http.MethodPost, "/api/messages",
			`{"recipientId":"bob","text":"hello"}`, "alice")

		req.Equal(http.StatusCreated, w.Code)
	})

	t.Run("should reject a message without a token", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/messages",
			`{"recipientId":"bob","text":"hello"}`, "")

		req.Equal(http.StatusUnauthorized, w.Code)
	})

	t.Run("should map membership refusal to forbidden", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.chat.EXPECT().
			PostMessage(gomock.Any(), gomock.Any()).
			Return(domain.Message{}, errors.ErrNotGroupMember)

		w := f.do(t, http.MethodPost, "/api/messages",
			`{"groupId":"g1","text":"hello"}`, "mallory")

		req.Equal(http.StatusForbidden, w.Code)
	})

	t.Run("should page history with the query cursor", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		next := "cursor-2"
		f.chat.EXPECT().
			GetMessages(gomock.Any()).
			DoAndReturn(func(cmd services.GetMessagesCommand) ([]domain.Message, *string, error) {
				req.Equal(domain.UserID("alice"), cmd.UserID)
				req.Equal(domain.UserID("bob"), cmd.PeerID)
				req.NotNil(cmd.Cursor)
				req.Equal("cursor-1", *cmd.Cursor)
				return []domain.Message{{Text: "hi"}}, &next, nil
			})

		w := f.do(t, http.MethodGet, "/api/messages?peerId=bob&cursor=cursor-1", "", "alice")

		req.Equal(http.StatusOK, w.Code)
		var body messagesResponse
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Len(body.Messages, 1)
		req.Equal(&next, body.NextCursor)
	})
}

func TestAPI_Groups(t *testing.T) {
	t.Run("should create a group owned by the caller", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			CreateGroup("devs", domain.UserID("alice"), []domain.UserID{"bob"}).
			Return(domain.Group{ID: "g1", Name: "devs"}, nil)

		w := f.do(t, http.MethodPost, "/api/groups",
			`{"name":"devs","members":["bob"]}`, "alice")

		req.Equal(http.StatusCreated, w.Code)
	})

	t.Run("should reject a group with no name", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPost, "/api/groups", `{"members":["bob"]}`, "alice")

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map an unknown group to not found", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			GetGroup(domain.GroupID("missing")).
			Return(domain.Group{}, errors.ErrUnknownGroup)

		w := f.do(t, http.MethodGet, "/api/groups/missing", "", "alice")

		req.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("should list the caller's groups", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			GroupsFor(domain.UserID("alice")).
			Return([]domain.Group{{ID: "g1", Name: "devs"}}, nil)

		w := f.do(t, http.MethodGet, "/api/groups", "", "alice")

		req.Equal(http.StatusOK, w.Code)
		var body groupsResponse
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Len(body.Groups, 1)
		req.Equal(domain.GroupID("g1"), body.Groups[0].ID)
	})

	t.Run("should rename a group for its creator", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			UpdateGroup(domain.GroupID("g1"), domain.UserID("alice"), "platform").
			Return(domain.Group{ID: "g1", Name: "platform"}, nil)

		w := f.do(t, http.MethodPut, "/api/groups/g1", `{"name":"platform"}`, "alice")

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should reject a rename with no name", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		w := f.do(t, http.MethodPut, "/api/groups/g1", `{}`, "alice")

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map a non creator's management attempt to forbidden", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			DeleteGroup(domain.GroupID("g1"), domain.UserID("mallory")).
			Return(errors.ErrNotGroupCreator)

		w := f.do(t, http.MethodDelete, "/api/groups/g1", "", "mallory")

		req.Equal(http.StatusForbidden, w.Code)
	})

	t.Run("should delete a group for its creator", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().
			DeleteGroup(domain.GroupID("g1"), domain.UserID("alice")).
			Return(nil)

		w := f.do(t, http.MethodDelete, "/api/groups/g1", "", "alice")

		req.Equal(http.StatusNoContent, w.Code)
	})

	t.Run("should join and leave through the path identity", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.groups.EXPECT().Join(domain.GroupID("g1"), domain.UserID("alice")).Return(nil)
		f.groups.EXPECT().Leave(domain.GroupID("g1"), domain.UserID("alice")).Return(nil)

		req.Equal(http.StatusNoContent, f.do(t, http.MethodPost, "/api/groups/g1/join", "", "alice").Code)
		req.Equal(http.StatusNoContent, f.do(t, http.MethodPost, "/api/groups/g1/leave", "", "alice").Code)
	})
}

func TestAPI_Users(t *testing.T) {
	t.Run("should serve the directory without the caller", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		f.auth.EXPECT().
			ListUsers("alice").
			Return([]services.UserProfile{{ID: "uuid-bob", Email: "bob@example.com"}}, nil)

		w := f.do(t, http.MethodGet, "/api/users", "", "alice")

		req.Equal(http.StatusOK, w.Code)
		var body usersResponse
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Equal([]services.UserProfile{{ID: "uuid-bob", Email: "bob@example.com"}}, body.Users)
	})

	t.Run("should require a token", func(t *testing.T) {
		req := require.New(t)
		f := newAPIFixture(t)

		w := f.do(t, http.MethodGet, "/api/users", "", "")

		req.Equal(http.StatusUnauthorized, w.Code)
	})
}
