package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Action tags an interaction event.
type Action string

// The three interaction actions the log accepts.
const (
	ActionPlay Action = "play"
	ActionLike Action = "like"
	ActionSkip Action = "skip"
)

// Valid reports whether the action is one the log accepts.
func (a Action) Valid() bool {
	switch a {
	case ActionPlay, ActionLike, ActionSkip:
		return true
	}
	return false
}

// Interaction is one append-only log entry. Username is denormalized on
// purpose: the log survives whatever happens to the users table.
type Interaction struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	SongID    int64     `json:"songId"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"ts"`
}

// UserLikeCount pairs a username with how many shared likes it accounts for.
type UserLikeCount struct {
	Username string
	Count    int
}

// SongLikeCount pairs a song id with its global like count.
type SongLikeCount struct {
	SongID int64
	Count  int
}

// AppendInteraction validates and appends one interaction event.
//
// A like is preceded by a duplicate check; two concurrent likes for the same
// (user, song) pair can both pass it and insert. That race is accepted, so
// readers must tolerate duplicate like rows.
func (s *Store) AppendInteraction(ctx context.Context, username string, songID int64, action Action) (Interaction, error) {
	if !action.Valid() {
		return Interaction{}, ErrInvalidAction
	}

	if action == ActionLike {
		var exists bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1
				FROM interactions
				WHERE username = $1 AND song_id = $2 AND action = 'like'
			)
		`, username, songID).Scan(&exists)
		if err != nil {
			return Interaction{}, fmt.Errorf("check existing like: %w", err)
		}
		if exists {
			return Interaction{}, ErrDuplicateLike
		}
	}

	interaction := Interaction{
		Username: username,
		SongID:   songID,
		Action:   action,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO interactions (username, song_id, action)
		VALUES ($1, $2, $3)
		RETURNING id, ts
	`, username, songID, string(action)).Scan(&interaction.ID, &interaction.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Interaction{}, ErrSongNotFound
		}
		return Interaction{}, fmt.Errorf("insert interaction: %w", err)
	}

	return interaction, nil
}

// LikedSongIDs returns the distinct ids of songs the user has liked.
func (s *Store) LikedSongIDs(ctx context.Context, username string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT song_id
		FROM interactions
		WHERE username = $1 AND action = 'like'
	`, username)
	if err != nil {
		return nil, fmt.Errorf("query liked song ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan song id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate song ids: %w", err)
	}

	return ids, nil
}

// LikedSongs returns the full song records the user has liked. The join is an
// explicit two-step: liked ids first, then a batch fetch by id set.
func (s *Store) LikedSongs(ctx context.Context, username string) ([]Song, error) {
	ids, err := s.LikedSongIDs(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.SongsByIDs(ctx, ids)
}

// RecentlyPlayed returns the songs the user most recently played, newest
// first, deduplicated keeping the most recent play of each song.
func (s *Store) RecentlyPlayed(ctx context.Context, username string, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM interactions
		WHERE username = $1 AND action = 'play'
		ORDER BY ts DESC
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("query play history: %w", err)
	}
	defer rows.Close()

	var ordered []int64
	seen := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan song id: %w", err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate play history: %w", err)
	}

	songs, err := s.SongsByIDs(ctx, ordered)
	if err != nil {
		return nil, err
	}
	return songsInOrder(songs, ordered), nil
}

// CoLikeCounts finds users, other than excludeUser, who liked songs in the
// given id set, ranked by how many of those songs they liked.
func (s *Store) CoLikeCounts(ctx context.Context, songIDs []int64, excludeUser string, limit int) ([]UserLikeCount, error) {
	if len(songIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT username, COUNT(*) AS common_likes
		FROM interactions
		WHERE song_id = ANY($1) AND action = 'like' AND username <> $2
		GROUP BY username
		ORDER BY common_likes DESC
		LIMIT $3
	`, pq.Array(songIDs), excludeUser, limit)
	if err != nil {
		return nil, fmt.Errorf("query co-like counts: %w", err)
	}
	defer rows.Close()

	var counts []UserLikeCount
	for rows.Next() {
		var c UserLikeCount
		if err := rows.Scan(&c.Username, &c.Count); err != nil {
			return nil, fmt.Errorf("scan co-like count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate co-like counts: %w", err)
	}

	return counts, nil
}

// LikeCountsBySong counts like rows per song across all users, most liked
// first. Raw rows are counted, matching the write-path semantics; the
// duplicate-like race can therefore inflate a count.
func (s *Store) LikeCountsBySong(ctx context.Context, limit int) ([]SongLikeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id, COUNT(*) AS like_count
		FROM interactions
		WHERE action = 'like'
		GROUP BY song_id
		ORDER BY like_count DESC, song_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query like counts: %w", err)
	}
	defer rows.Close()

	var counts []SongLikeCount
	for rows.Next() {
		var c SongLikeCount
		if err := rows.Scan(&c.SongID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan like count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like counts: %w", err)
	}

	return counts, nil
}

// LikesByUsers returns like interactions authored by any of the given users
// on songs outside the excluded id set. With recentFirst the result is
// ordered by timestamp descending; otherwise storage order applies.
func (s *Store) LikesByUsers(ctx context.Context, usernames []string, excludeSongIDs []int64, limit int, recentFirst bool) ([]Interaction, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, username, song_id, action, ts
		FROM interactions
		WHERE username = ANY($1) AND action = 'like'`
	args := []interface{}{pq.Array(usernames)}
	argIdx := 2

	if len(excludeSongIDs) > 0 {
		query += fmt.Sprintf(" AND NOT (song_id = ANY($%d))", argIdx)
		args = append(args, pq.Array(excludeSongIDs))
		argIdx++
	}
	if recentFirst {
		query += " ORDER BY ts DESC"
	} else {
		query += " ORDER BY id ASC"
	}
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query likes by users: %w", err)
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		var in Interaction
		var action string
		if err := rows.Scan(&in.ID, &in.Username, &in.SongID, &action, &in.Timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Action = Action(action)
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}

// songsInOrder rearranges a batch-fetched song list to match the given id
// order, dropping ids the fetch did not return.
func songsInOrder(songs []Song, ids []int64) []Song {
	byID := make(map[int64]Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	ordered := make([]Song, 0, len(ids))
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
