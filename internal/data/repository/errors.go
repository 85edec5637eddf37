package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by writes that matched no row.
var ErrNotFound = errors.New("record not found")

// ErrConflict is matched by every *ConflictError.
var ErrConflict = errors.New("record already exists")

// Unique constraints on users, named as Postgres reports them.
const (
	ConstraintUsername  = "users_username_key"
	ConstraintUserEmail = "users_email_key"
)

const uniqueViolation = "23505"

// ConflictError names the unique constraint an insert ran into.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error() + ": " + e.Constraint
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ConflictError{Constraint: pgErr.ConstraintName}
	}
	return err
}
