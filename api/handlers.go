// Package api exposes the HTTP surface: credential exchange, message
// posting, history paging, and group management. The live event path never
// goes through here; delivery belongs to the gateway.
package api

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/services"
)

type API struct {
	log    *slog.Logger
	auth   services.IAuthService
	chat   services.IChatService
	groups services.IGroupService
}

func NewAPI(log *slog.Logger, auth services.IAuthService, chat services.IChatService,
	groups services.IGroupService) *API {
	return &API{log: log, auth: auth, chat: chat, groups: groups}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type postMessageRequest struct {
	RecipientID string `json:"recipientId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	Text        string `json:"text,omitempty"`
	Image       string `json:"image,omitempty"`
}

type messagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

type updateGroupRequest struct {
	Name string `json:"name"`
}

type groupsResponse struct {
	Groups []domain.Group `json:"groups"`
}

type usersResponse struct {
	Users []services.UserProfile `json:"users"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := a.auth.Register(req.Email, req.Password)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func (a *API) PostMessage(w http.ResponseWriter, r *http.Request) {
	sender := userFrom(r.Context())

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	msg, err := a.chat.PostMessage(r.Context(), services.PostMessageCommand{
		SenderID:    sender,
		RecipientID: domain.UserID(req.RecipientID),
		GroupID:     domain.GroupID(req.GroupID),
		Text:        req.Text,
		Image:       req.Image,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, msg)
}

func (a *API) GetMessages(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	msgs, next, err := a.chat.GetMessages(services.GetMessagesCommand{
		UserID:  user,
		PeerID:  domain.UserID(r.URL.Query().Get("peerId")),
		GroupID: domain.GroupID(r.URL.Query().Get("groupId")),
		Cursor:  cursor,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, messagesResponse{Messages: msgs, NextCursor: next})
}

func (a *API) CreateGroup(w http.ResponseWriter, r *http.Request) {
	creator := userFrom(r.Context())

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		a.writeError(w, http.StatusBadRequest, goerrors.New("group name is required"))
		return
	}

	members := make([]domain.UserID, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, domain.UserID(m))
	}

	group, err := a.groups.CreateGroup(req.Name, creator, members)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, group)
}

// GetUsers serves the contact directory clients build their sidebar from.
// The caller's own account is excluded.
func (a *API) GetUsers(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	users, err := a.auth.ListUsers(string(user))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

func (a *API) GetGroups(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	groups, err := a.groups.GroupsFor(user)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, groupsResponse{Groups: groups})
}

func (a *API) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := a.groups.GetGroup(domain.GroupID(r.PathValue("id")))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, group)
}

func (a *API) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		a.writeError(w, http.StatusBadRequest, goerrors.New("group name is required"))
		return
	}

	group, err := a.groups.UpdateGroup(domain.GroupID(r.PathValue("id")), user, req.Name)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, group)
}

func (a *API) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := a.groups.DeleteGroup(domain.GroupID(r.PathValue("id")), user); err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) JoinGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := a.groups.Join(domain.GroupID(r.PathValue("id")), user); err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := a.groups.Leave(domain.GroupID(r.PathValue("id")), user); err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.log.Warn("Failed to encode response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors stay opaque to the client.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case goerrors.Is(err, errors.ErrInvalidMessage), goerrors.Is(err, errors.ErrInvalidPassword):
		a.writeError(w, http.StatusBadRequest, err)
	case goerrors.Is(err, errors.ErrInvalidCredentials), goerrors.Is(err, errors.ErrTokenInvalid):
		a.writeError(w, http.StatusUnauthorized, err)
	case goerrors.Is(err, errors.ErrNotGroupMember), goerrors.Is(err, errors.ErrNotGroupCreator):
		a.writeError(w, http.StatusForbidden, err)
	case goerrors.Is(err, errors.ErrUnknownGroup):
		a.writeError(w, http.StatusNotFound, err)
	case goerrors.Is(err, errors.ErrUserAlreadyExists):
		a.writeError(w, http.StatusConflict, err)
	default:
		a.log.Error("Unhandled service error", "error", err)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
