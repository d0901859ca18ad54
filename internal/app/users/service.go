package users

import (
	"context"

	"cadence/internal/store"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, username, password, name string) (store.Profile, error)
	Authenticate(ctx context.Context, username, password string) (store.Profile, error)
	ProfileByUsername(ctx context.Context, username string) (store.Profile, error)
	UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (store.Profile, error)
	AddFriend(ctx context.Context, username, friend string) error
	ListOtherUsers(ctx context.Context, excluding string) ([]store.UserRef, error)
}

// Tokens issues bearer tokens for authenticated users.
type Tokens interface {
	Issue(username string) (string, error)
}

// Service exposes account and profile workflows.
type Service interface {
	Register(ctx context.Context, username, password, name string) (store.Profile, string, error)
	Login(ctx context.Context, username, password string) (store.Profile, string, error)
	Profile(ctx context.Context, username string) (store.Profile, error)
	UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (store.Profile, error)
	AddFriend(ctx context.Context, username, friend string) error
	ListOthers(ctx context.Context, username string) ([]store.UserRef, error)
}

type service struct {
	store  Store
	tokens Tokens
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens Tokens) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Register(ctx context.Context, username, password, name string) (store.Profile, string, error) {
	if err := ctx.Err(); err != nil {
		return store.Profile{}, "", err
	}

	profile, err := s.store.CreateUser(ctx, username, password, name)
	if err != nil {
		return store.Profile{}, "", err
	}

	token, err := s.tokens.Issue(profile.Username)
	if err != nil {
		return store.Profile{}, "", err
	}
	return profile, token, nil
}

func (s *service) Login(ctx context.Context, username, password string) (store.Profile, string, error) {
	if err := ctx.Err(); err != nil {
		return store.Profile{}, "", err
	}

	profile, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		return store.Profile{}, "", err
	}

	token, err := s.tokens.Issue(profile.Username)
	if err != nil {
		return store.Profile{}, "", err
	}
	return profile, token, nil
}

func (s *service) Profile(ctx context.Context, username string) (store.Profile, error) {
	if err := ctx.Err(); err != nil {
		return store.Profile{}, err
	}
	return s.store.ProfileByUsername(ctx, username)
}

func (s *service) UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (store.Profile, error) {
	if err := ctx.Err(); err != nil {
		return store.Profile{}, err
	}
	return s.store.UpdateProfile(ctx, username, name, favoriteArtists, favoriteGenres)
}

func (s *service) AddFriend(ctx context.Context, username, friend string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddFriend(ctx, username, friend)
}

func (s *service) ListOthers(ctx context.Context, username string) ([]store.UserRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListOtherUsers(ctx, username)
}
