package recs

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cadence/internal/store"
)

const (
	// carouselSize caps every recommendation list.
	carouselSize = 20
	// contentPoolSize is how many top-scored candidates feed the diversity sample.
	contentPoolSize = 40
	// neighborLimit caps how many similar users collaborative filtering considers.
	neighborLimit = 10
	// neighborLikesLimit caps how many neighbor likes are fetched before dedup.
	neighborLikesLimit = 20
	// friendLikesLimit caps how many recent friend likes are fetched before dedup.
	friendLikesLimit = 30
)

// Catalog is the read-only song query surface the recommenders depend on.
type Catalog interface {
	SongsByIDs(ctx context.Context, ids []int64) ([]store.Song, error)
	SongsByAttributes(ctx context.Context, match store.AttributeMatch, excludeIDs []int64, limit int) ([]store.Song, error)
}

// InteractionLog is the interaction query surface the recommenders depend on.
type InteractionLog interface {
	LikedSongIDs(ctx context.Context, username string) ([]int64, error)
	LikedSongs(ctx context.Context, username string) ([]store.Song, error)
	CoLikeCounts(ctx context.Context, songIDs []int64, excludeUser string, limit int) ([]store.UserLikeCount, error)
	LikeCountsBySong(ctx context.Context, limit int) ([]store.SongLikeCount, error)
	LikesByUsers(ctx context.Context, usernames []string, excludeSongIDs []int64, limit int, recentFirst bool) ([]store.Interaction, error)
}

// Profiles reads user profiles for the profile- and friend-based strategies.
type Profiles interface {
	ProfileByUsername(ctx context.Context, username string) (store.Profile, error)
}

// Service computes the five recommendation carousels. Each method is a
// stateless read pipeline; callers may invoke them concurrently.
type Service interface {
	ContentBased(ctx context.Context, username string) ([]store.Song, error)
	UserBased(ctx context.Context, username string) ([]store.Song, error)
	Popular(ctx context.Context) ([]store.Song, error)
	ProfileBased(ctx context.Context, username string) ([]store.Song, error)
	FriendBased(ctx context.Context, username string) ([]store.Song, error)
}

type service struct {
	catalog  Catalog
	log      InteractionLog
	profiles Profiles

	// rng drives the content-based diversity sample; guarded because
	// rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// New wires a recommendation Service over the given query surfaces.
func New(catalog Catalog, log InteractionLog, profiles Profiles) Service {
	return &service{
		catalog:  catalog,
		log:      log,
		profiles: profiles,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// sample returns up to n songs drawn without replacement, in random order.
func (s *service) sample(songs []store.Song, n int) []store.Song {
	if len(songs) == 0 {
		return nil
	}

	shuffled := make([]store.Song, len(songs))
	copy(shuffled, songs)

	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// songsInOrder rearranges a batch-fetched song list to match the id order the
// strategy derived, dropping ids the catalog no longer knows.
func songsInOrder(songs []store.Song, ids []int64) []store.Song {
	byID := make(map[int64]store.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	ordered := make([]store.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := byID[id]; ok {
			ordered = append(ordered, song)
		}
	}
	if len(ordered) == 0 {
		return nil
	}
	return ordered
}

func intersectionSize(values []string, set map[string]bool) int {
	n := 0
	for _, v := range values {
		if set[v] {
			n++
		}
	}
	return n
}
