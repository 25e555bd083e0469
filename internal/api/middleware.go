package api

import (
	"context"
	"net/http"
	"strings"

	"gochat/internal/common"
)

type contextKey string

const identityKey contextKey = "identity"

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. It fails closed: no valid token, no handler.
func RequireAuth(tokens *common.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if parts := strings.Fields(r.Header.Get("Authorization")); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
			claims, err := tokens.Validate(token)
			if err != nil {
				writeError(w, err)
				return
			}
			identity := common.NormalizeEmail(claims.Email)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
		})
	}
}

func identityFrom(r *http.Request) string {
	identity, _ := r.Context().Value(identityKey).(string)
	return identity
}
