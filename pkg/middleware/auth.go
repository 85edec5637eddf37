package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"watchmate/internal/data/entity"
	"watchmate/internal/permission"
	"watchmate/internal/usecase"
	"watchmate/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a token key to its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// Authenticate attaches the caller identity when an Authorization header is
// present. Requests without one continue anonymously; a malformed or unknown
// token is rejected even on read-only routes.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := parseAuthorization(authHeader)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token header. Use: Token <key>")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthenticated) {
					logger.Warn("Invalid token", zap.String("token_prefix", tokenPrefix(token)))
					utils.ResponseUnauthorized(w, "Invalid token")
					return
				}
				logger.Error("Failed to validate token", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !permission.CallerFromContext(r.Context()).Authenticated() {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOrReadOnly lets safe methods through and restricts the rest to admins.
func AdminOrReadOnly(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := permission.CallerFromContext(r.Context())

			switch permission.AdminOrReadOnly(caller, r.Method) {
			case permission.Unauthenticated:
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
				return
			case permission.Forbidden:
				logger.Warn("Admin check: non-admin write attempt",
					zap.String("user_id", caller.UserID.String()),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// parseAuthorization accepts "Token <key>" and "Bearer <key>".
func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}

	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1], true
	}
	return "", false
}

func tokenPrefix(token string) string {
	if len(token) > 6 {
		return token[:6]
	}
	return token
}
