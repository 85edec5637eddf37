package entity

import (
	"time"

	"github.com/google/uuid"
)

// Token is the bearer credential of a user. A user holds at most one.
type Token struct {
	Key       string    `db:"key"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
