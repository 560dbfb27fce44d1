package middleware

import (
	"context"
	"net/http"
	"strings"

	"chargehub/internal/models"
	"chargehub/internal/service"
)

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	accountTypeKey contextKey = "account_type"
)

// UserID returns the authenticated user id stored by Auth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// AccountType returns the authenticated account type stored by Auth.
func AccountType(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(accountTypeKey).(string)
	return t, ok
}

// Auth validates the Bearer token and stores the caller identity on the
// request context.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, accountTypeKey, claims.AccountType)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperator rejects callers whose account is not an operator one.
// It must run after Auth.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountType, ok := AccountType(r.Context())
		if !ok || accountType != models.AccountTypeOperator {
			http.Error(w, `{"error":"operator access required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
