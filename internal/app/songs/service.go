package songs

import (
	"context"
	"fmt"
	"strings"

	"cadence/internal/store"
)

const listLimit = 20

// Catalog describes the read-only song queries the service needs.
type Catalog interface {
	ListSongs(ctx context.Context, limit int) ([]store.Song, error)
	SearchSongs(ctx context.Context, term string) ([]store.Song, error)
	DistinctArtists(ctx context.Context) ([]string, error)
	DistinctGenres(ctx context.Context) ([]string, error)
}

// Service exposes catalog browsing operations.
type Service interface {
	List(ctx context.Context) ([]store.Song, error)
	Search(ctx context.Context, term string) ([]store.Song, error)
	AllArtists(ctx context.Context) ([]string, error)
	AllGenres(ctx context.Context) ([]string, error)
}

type service struct {
	catalog Catalog
}

// New constructs a song Service backed by the provided catalog.
func New(catalog Catalog) Service {
	return &service{catalog: catalog}
}

func (s *service) List(ctx context.Context) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.ListSongs(ctx, listLimit)
}

func (s *service) Search(ctx context.Context, term string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", store.ErrInvalidInput)
	}
	return s.catalog.SearchSongs(ctx, term)
}

func (s *service) AllArtists(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.DistinctArtists(ctx)
}

func (s *service) AllGenres(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.DistinctGenres(ctx)
}
