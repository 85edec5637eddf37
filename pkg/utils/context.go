package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
)

// identity is what the auth middleware learned about the caller
type identity struct {
	userID uuid.UUID
	role   string
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(identityKey).(identity)
	if !ok || id.userID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(identity)
	if !ok {
		return "", false
	}
	return id.role, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return context.WithValue(ctx, identityKey, identity{userID: userID, role: role})
}

// GetTokenFromContext returns the token key the request authenticated with
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}
