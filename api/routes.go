package api

import (
	"net/http"

	"chat-relay/auth"
)

// Routes assembles the full HTTP surface. The WebSocket endpoint is passed
// in so the router stays ignorant of the gateway's internals.
func (a *API) Routes(tokens *auth.TokenManager, ws http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", a.Health)
	mux.HandleFunc("GET /ws", ws)

	mux.HandleFunc("POST /api/auth/register", a.Register)
	mux.HandleFunc("POST /api/auth/login", a.Login)

	mux.HandleFunc("GET /api/users", a.RequireAuth(tokens, a.GetUsers))

	mux.HandleFunc("POST /api/messages", a.RequireAuth(tokens, a.PostMessage))
	mux.HandleFunc("GET /api/messages", a.RequireAuth(tokens, a.GetMessages))

	mux.HandleFunc("POST /api/groups", a.RequireAuth(tokens, a.CreateGroup))
	mux.HandleFunc("GET /api/groups", a.RequireAuth(tokens, a.GetGroups))
	mux.HandleFunc("GET /api/groups/{id}", a.RequireAuth(tokens, a.GetGroup))
	mux.HandleFunc("PUT /api/groups/{id}", a.RequireAuth(tokens, a.UpdateGroup))
	mux.HandleFunc("DELETE /api/groups/{id}", a.RequireAuth(tokens, a.DeleteGroup))
	mux.HandleFunc("POST /api/groups/{id}/join", a.RequireAuth(tokens, a.JoinGroup))
	mux.HandleFunc("POST /api/groups/{id}/leave", a.RequireAuth(tokens, a.LeaveGroup))

	return mux
}
