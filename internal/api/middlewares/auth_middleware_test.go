package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/markdave123-py/uniconnect/internal/services"
)

func gated(tokens TokenParser) http.Handler {
	return AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserID(r.Context())))
	}))
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	valid, err := tokens.Issue("user-42")
	assert.NoError(t, err)
	expired, err := services.NewTokenService("secret", -time.Minute).Issue("user-42")
	assert.NoError(t, err)
	forged, err := services.NewTokenService("other", time.Hour).Issue("user-42")
	assert.NoError(t, err)

	cases := []struct {
		name   string
		header string
		value  string
		status int
		body   string
	}{
		{"missing", "", "", http.StatusUnauthorized, `{"msg":"No token, authorization denied"}`},
		{"garbage", "x-auth-token", "abc", http.StatusUnauthorized, `{"msg":"Token is not valid"}`},
		{"expired", "x-auth-token", expired, http.StatusUnauthorized, `{"msg":"Token is not valid"}`},
		{"wrong secret", "x-auth-token", forged, http.StatusUnauthorized, `{"msg":"Token is not valid"}`},
		{"header token", "x-auth-token", valid, http.StatusOK, "user-42"},
		{"bearer fallback", "Authorization", "Bearer " + valid, http.StatusOK, "user-42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			rec := httptest.NewRecorder()
			gated(tokens).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tc.body, rec.Body.String())
			}
		})
	}
}
