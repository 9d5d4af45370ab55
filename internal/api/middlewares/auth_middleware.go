package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// TokenParser verifies a token and returns the user id it carries.
type TokenParser interface {
	Parse(token string) (string, error)
}

// AuthMiddleware validates the x-auth-token header (or a Bearer Authorization header) and
// attaches the user id to the request context.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get("x-auth-token")
			if tokenStr == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					tokenStr = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if tokenStr == "" {
				httpx.Message(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			userID, err := tokens.Parse(tokenStr)
			if err != nil {
				httpx.Message(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, or "" outside the auth gate.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
