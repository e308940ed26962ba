package api

import (
	"context"
	"net/http"
	"strings"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
)

type contextKey string

const userContextKey contextKey = "user"

func userFrom(ctx context.Context) domain.UserID {
	user, _ := ctx.Value(userContextKey).(domain.UserID)
	return user
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func (a *API) RequireAuth(tokens *auth.TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer := r.Header.Get("Authorization")
		if !strings.HasPrefix(bearer, "Bearer ") {
			a.writeError(w, http.StatusUnauthorized, errors.ErrTokenInvalid)
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(bearer, "Bearer "))
		if err != nil {
			a.writeError(w, http.StatusUnauthorized, errors.ErrTokenInvalid)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, domain.UserID(claims.UserID))
		next(w, r.WithContext(ctx))
	}
}
