package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/templequest/temple-api/internal/api/respond"
	"github.com/templequest/temple-api/internal/auth"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*domain.User, error)
}

// Auth resolves the bearer token to a user and stores it in the request context.
func Auth(resolver IdentityResolver, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			user, err := resolver.ResolveIdentity(r.Context(), token)
			if err != nil {
				status, detail := AuthFailure(err)
				if status == http.StatusInternalServerError {
					log.Error(r.Context(), "identity resolution failed", "err", err)
				}
				respond.Error(w, status, detail)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthFailure maps an identity resolution error to a status and message.
func AuthFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, auth.ErrTokenMalformed):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}
