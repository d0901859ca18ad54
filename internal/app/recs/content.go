package recs

import (
	"context"
	"sort"

	"cadence/internal/store"
)

// ContentBased recommends songs sharing genres or tags with the user's liked
// songs. The top-scored candidates are sampled randomly so repeated calls
// vary, trading strict rank order for diversity.
func (s *service) ContentBased(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := s.contentCandidates(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.sample(candidates, carouselSize), nil
}

// contentCandidates builds the deterministic scored pool the sample draws
// from: every catalog song outside the liked set whose genres or tags overlap
// the liked ones, ranked by overlap size, cut to the pool size.
func (s *service) contentCandidates(ctx context.Context, username string) ([]store.Song, error) {
	liked, err := s.log.LikedSongs(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		// Cold start: no likes means no signal, not an error.
		return nil, nil
	}

	likedIDs := make([]int64, 0, len(liked))
	likedGenres := make(map[string]bool)
	likedTags := make(map[string]bool)
	for _, song := range liked {
		likedIDs = append(likedIDs, song.ID)
		for _, genre := range song.Genres {
			likedGenres[genre] = true
		}
		for _, tag := range song.Tags {
			likedTags[tag] = true
		}
	}

	match := store.AttributeMatch{
		Genres: setToSlice(likedGenres),
		Tags:   setToSlice(likedTags),
	}
	pool, err := s.catalog.SongsByAttributes(ctx, match, likedIDs, 0)
	if err != nil {
		return nil, err
	}

	type scored struct {
		song  store.Song
		score int
	}
	ranked := make([]scored, 0, len(pool))
	for _, song := range pool {
		score := intersectionSize(song.Genres, likedGenres) + intersectionSize(song.Tags, likedTags)
		if score == 0 {
			continue
		}
		ranked = append(ranked, scored{song: song, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > contentPoolSize {
		ranked = ranked[:contentPoolSize]
	}

	candidates := make([]store.Song, 0, len(ranked))
	for _, r := range ranked {
		candidates = append(candidates, r.song)
	}
	return candidates, nil
}

func setToSlice(set map[string]bool) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
