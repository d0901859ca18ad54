package recs

import (
	"context"

	"cadence/internal/store"
)

// ProfileBased recommends songs matching the user's declared favorite artists
// or genres, skipping anything already liked.
func (s *service) ProfileBased(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.ProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(profile.FavoriteArtists) == 0 && len(profile.FavoriteGenres) == 0 {
		return nil, nil
	}

	likedIDs, err := s.log.LikedSongIDs(ctx, username)
	if err != nil {
		return nil, err
	}

	match := store.AttributeMatch{
		Artists: profile.FavoriteArtists,
		Genres:  profile.FavoriteGenres,
	}
	return s.catalog.SongsByAttributes(ctx, match, likedIDs, carouselSize)
}
