package api

import (
	"context"
	"katalog-miejsc/internal/auth"
	"katalog-miejsc/internal/models"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const authContextKey = contextKey("auth")

// AuthInfo is what a verified request carries: the fresh user row and the
// session the presented token is bound to.
type AuthInfo struct {
	User      *models.User
	SessionID uuid.UUID
}

// AuthMiddleware verifies the Bearer access token and confirms its session
// still exists. Signature failures, expiry and a deleted session all produce
// the same 401 so callers cannot probe which check failed.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		tokenString := headerParts[1]

		claims, err := s.tokens.Verify(tokenString, auth.TokenKindAccess)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		session, err := s.store.GetSessionByID(r.Context(), claims.SessionID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if session == nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		user, err := s.store.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		info := &AuthInfo{User: user, SessionID: claims.SessionID}
		ctx := context.WithValue(r.Context(), authContextKey, info)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on a per-route allow-list. Routes without it are
// open to any verified identity.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := GetAuthFromContext(r.Context())
			if info == nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if info.User.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetAuthFromContext(ctx context.Context) *AuthInfo {
	if info, ok := ctx.Value(authContextKey).(*AuthInfo); ok {
		return info
	}
	return nil
}
