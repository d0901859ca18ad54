package recs

import (
	"context"

	"cadence/internal/store"
)

// UserBased recommends songs liked by the user's taste neighbors: the users
// sharing the most likes with the requester.
func (s *service) UserBased(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	likedIDs, err := s.log.LikedSongIDs(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(likedIDs) == 0 {
		return nil, nil
	}

	neighbors, err := s.log.CoLikeCounts(ctx, likedIDs, username, neighborLimit)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	usernames := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		usernames = append(usernames, n.Username)
	}

	likes, err := s.log.LikesByUsers(ctx, usernames, likedIDs, neighborLikesLimit, false)
	if err != nil {
		return nil, err
	}

	// Dedupe by song, keeping the first occurrence.
	seen := make(map[int64]bool, len(likes))
	ids := make([]int64, 0, len(likes))
	for _, like := range likes {
		if seen[like.SongID] {
			continue
		}
		seen[like.SongID] = true
		ids = append(ids, like.SongID)
	}

	songs, err := s.catalog.SongsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return songsInOrder(songs, ids), nil
}
