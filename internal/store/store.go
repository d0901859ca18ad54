package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSongNotFound indicates the referenced song does not exist.
	ErrSongNotFound = errors.New("song not found")
	// ErrInvalidAction signals an interaction action outside play/like/skip.
	ErrInvalidAction = errors.New("invalid interaction action")
	// ErrDuplicateLike signals the user already likes the song.
	ErrDuplicateLike = errors.New("song already liked")
	// ErrSelfFriend signals an attempt to befriend oneself.
	ErrSelfFriend = errors.New("cannot add yourself as a friend")
	// ErrInvalidInput wraps malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
