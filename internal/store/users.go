package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Profile holds everything the application knows about a user, minus credentials.
type Profile struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	FavoriteArtists []string `json:"favoriteArtists"`
	FavoriteGenres  []string `json:"favoriteGenres"`
	Friends         []string `json:"friends"`
}

// UserRef is a lightweight user listing entry.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, password, name string) (Profile, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || password == "" || name == "" {
		return Profile{}, fmt.Errorf("%w: username, password and name are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, fmt.Errorf("hash password: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, hash, name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return Profile{}, ErrUserExists
		}
		return Profile{}, fmt.Errorf("insert user: %w", err)
	}

	return Profile{
		ID:              id,
		Username:        username,
		Name:            name,
		FavoriteArtists: []string{},
		FavoriteGenres:  []string{},
		Friends:         []string{},
	}, nil
}

// Authenticate validates credentials and returns the matching profile.
func (s *Store) Authenticate(ctx context.Context, username, password string) (Profile, error) {
	var (
		profile Profile
		hash    []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, name, password_hash, favorite_artists, favorite_genres, friends
		FROM users
		WHERE username = $1
	`, username).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Name,
		&hash,
		pq.Array(&profile.FavoriteArtists),
		pq.Array(&profile.FavoriteGenres),
		pq.Array(&profile.Friends),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a comparison so missing users cost the same as bad passwords.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return Profile{}, ErrInvalidCredentials
		}
		return Profile{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Profile{}, ErrInvalidCredentials
	}

	return profile, nil
}

// ProfileByUsername loads a user's profile.
func (s *Store) ProfileByUsername(ctx context.Context, username string) (Profile, error) {
	var profile Profile

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, name, favorite_artists, favorite_genres, friends
		FROM users
		WHERE username = $1
	`, username).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Name,
		pq.Array(&profile.FavoriteArtists),
		pq.Array(&profile.FavoriteGenres),
		pq.Array(&profile.Friends),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("lookup profile: %w", err)
	}

	return profile, nil
}

// UpdateProfile replaces the user's display name and favorite attribute sets.
func (s *Store) UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if favoriteArtists == nil {
		favoriteArtists = []string{}
	}
	if favoriteGenres == nil {
		favoriteGenres = []string{}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, favorite_artists = $3, favorite_genres = $4
		WHERE username = $1
	`, username, name, pq.Array(favoriteArtists), pq.Array(favoriteGenres))
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return Profile{}, ErrUserNotFound
	}

	return s.ProfileByUsername(ctx, username)
}

// AddFriend links two users symmetrically. Adding an existing friend is a no-op.
func (s *Store) AddFriend(ctx context.Context, username, friend string) error {
	friend = strings.TrimSpace(friend)
	if friend == "" {
		return fmt.Errorf("%w: friend username is required", ErrInvalidInput)
	}
	if friend == username {
		return ErrSelfFriend
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, friend).Scan(&exists); err != nil {
		return fmt.Errorf("lookup friend: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET friends = array_append(friends, $2)
		WHERE username = $1 AND NOT friends @> ARRAY[$2]
	`, username, friend)
	if err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		// Either unknown user or already friends; distinguish the former.
		var userExists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
		`, username).Scan(&userExists); err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if !userExists {
			return ErrUserNotFound
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET friends = array_append(friends, $2)
		WHERE username = $1 AND NOT friends @> ARRAY[$2]
	`, friend, username); err != nil {
		return fmt.Errorf("add reverse friend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// ListOtherUsers returns every user except the one given, for friend pickers.
func (s *Store) ListOtherUsers(ctx context.Context, excluding string) ([]UserRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username
		FROM users
		WHERE username <> $1
		ORDER BY username ASC
	`, excluding)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []UserRef
	for rows.Next() {
		var ref UserRef
		if err := rows.Scan(&ref.ID, &ref.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
