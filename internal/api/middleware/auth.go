package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/service"
	"github.com/google/uuid"
)

// TokenHeader carries the session token on every authenticated request.
const TokenHeader = "X-User-Token"

type contextKey string

const userKey contextKey = "user"

// Auth validates the X-User-Token header and stores the resolved user
// on the request context. Forged, corrupted and unknown tokens all get
// the same 401.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}

			user, err := authService.Validate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidToken) {
					log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				}
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
