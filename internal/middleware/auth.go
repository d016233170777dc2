package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"promptstore/internal/models"
	"promptstore/internal/service"
	"promptstore/internal/utils"
)

type ctxKey string

const ctxUserKey ctxKey = "current_user"

// Authenticator resolves a bearer token to the user it identifies.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Auth extracts the bearer token, resolves the current user, and stores
// it in the request context. Requests without a valid token get a 401.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.JSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				utils.JSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			tokenStr := strings.TrimSpace(parts[1])
			if tokenStr == "" {
				utils.JSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			user, err := auth.CurrentUser(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					utils.JSONError(w, http.StatusUnauthorized, "could not validate credentials")
				} else {
					utils.JSONError(w, http.StatusInternalServerError, "internal error")
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by Auth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxUserKey).(*models.User)
	return user, ok
}
