package recs

import (
	"context"

	"cadence/internal/store"
)

// Popular recommends the globally most-liked songs. Not user-scoped.
func (s *service) Popular(ctx context.Context) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts, err := s.log.LikeCountsBySong(ctx, carouselSize)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.SongID)
	}

	songs, err := s.catalog.SongsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return songsInOrder(songs, ids), nil
}
