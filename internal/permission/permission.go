// Package permission holds the per-request capability predicates: who may
// read and who may change admin-managed and user-owned resources.
package permission

import (
	"context"
	"net/http"

	"watchmate/internal/data/entity"
	"watchmate/pkg/utils"

	"github.com/google/uuid"
)

// Caller is the identity a request runs as. The zero value is anonymous.
type Caller struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (c Caller) Authenticated() bool {
	return c.UserID != uuid.Nil
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == entity.RoleAdmin
}

// CallerFromContext reads the identity set by the authentication middleware.
func CallerFromContext(ctx context.Context) Caller {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Caller{}
	}
	role, _ := utils.GetRoleFromContext(ctx)
	return Caller{UserID: userID, Role: entity.UserRole(role)}
}

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanRead is true for everyone, anonymous callers included.
func CanRead(Caller) bool {
	return true
}

// CanWriteAdminResource guards platforms and watch-list items.
func CanWriteAdminResource(c Caller) bool {
	return c.IsAdmin()
}

// CanWriteOwnedResource guards reviews: only the author may change one.
func CanWriteOwnedResource(c Caller, ownerID uuid.UUID) bool {
	return c.Authenticated() && c.UserID == ownerID
}

// Decision is the outcome of a permission check.
type Decision int

const (
	Allow Decision = iota
	// Unauthenticated means the caller must log in first.
	Unauthenticated
	// Forbidden means the caller is known but lacks the capability.
	Forbidden
)

// Decide turns a predicate result into a Decision. Anonymous callers are
// told to authenticate rather than being refused outright.
func Decide(c Caller, allowed bool) Decision {
	switch {
	case allowed:
		return Allow
	case !c.Authenticated():
		return Unauthenticated
	default:
		return Forbidden
	}
}

// AdminOrReadOnly lets anyone read and only admins write.
func AdminOrReadOnly(c Caller, method string) Decision {
	if IsSafeMethod(method) {
		return Decide(c, CanRead(c))
	}
	return Decide(c, CanWriteAdminResource(c))
}

// AuthorOrReadOnly lets anyone read and only the author write.
func AuthorOrReadOnly(c Caller, method string, authorID uuid.UUID) Decision {
	if IsSafeMethod(method) {
		return Decide(c, CanRead(c))
	}
	return Decide(c, CanWriteOwnedResource(c, authorID))
}
