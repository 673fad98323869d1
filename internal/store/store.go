// Package store persists users and sessions in Postgres.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
