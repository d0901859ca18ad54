package recs

import (
	"context"

	"cadence/internal/store"
)

// FriendBased recommends what the user's friends liked most recently,
// skipping anything the user already likes.
func (s *service) FriendBased(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.ProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(profile.Friends) == 0 {
		return nil, nil
	}

	likedIDs, err := s.log.LikedSongIDs(ctx, username)
	if err != nil {
		return nil, err
	}

	likes, err := s.log.LikesByUsers(ctx, profile.Friends, likedIDs, friendLikesLimit, true)
	if err != nil {
		return nil, err
	}

	// Likes arrive newest first, so keeping the first occurrence per song
	// keeps the most recent one.
	seen := make(map[int64]bool, len(likes))
	ids := make([]int64, 0, len(likes))
	for _, like := range likes {
		if seen[like.SongID] {
			continue
		}
		seen[like.SongID] = true
		ids = append(ids, like.SongID)
	}
	if len(ids) > carouselSize {
		ids = ids[:carouselSize]
	}

	songs, err := s.catalog.SongsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return songsInOrder(songs, ids), nil
}
