package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Song represents one catalog entry. The catalog is immutable after load.
type Song struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	Genres      []string `json:"genres"`
	ReleaseYear int      `json:"releaseYear,omitempty"`
	Tags        []string `json:"tags"`
}

// AttributeMatch selects songs whose attribute sets intersect any of the
// given sets. Empty slices contribute no clause.
type AttributeMatch struct {
	Artists []string
	Genres  []string
	Tags    []string
}

const songColumns = "id, title, artists, album, genres, release_year, tags"

// searchDocument is the text-search source over title, artists, genres and tags.
const searchDocument = `to_tsvector('english',
	title || ' ' ||
	array_to_string(artists, ' ') || ' ' ||
	array_to_string(genres, ' ') || ' ' ||
	array_to_string(tags, ' '))`

// ListSongs returns up to limit songs in storage order.
func (s *Store) ListSongs(ctx context.Context, limit int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM songs
		ORDER BY id ASC
		LIMIT $1
	`, songColumns), limit)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// SongsByIDs batch-fetches songs for the given id set. Missing ids are
// silently absent from the result; an empty id set yields an empty result.
func (s *Store) SongsByIDs(ctx context.Context, ids []int64) ([]Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM songs
		WHERE id = ANY($1)
	`, songColumns), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query songs by ids: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// SongsByAttributes returns songs whose artists, genres or tags intersect
// the corresponding match sets, excluding the given ids. A limit of zero
// means no limit.
func (s *Store) SongsByAttributes(ctx context.Context, match AttributeMatch, excludeIDs []int64, limit int) ([]Song, error) {
	var clauses []string
	args := []interface{}{}
	argIdx := 1

	if len(match.Artists) > 0 {
		clauses = append(clauses, fmt.Sprintf("artists && $%d", argIdx))
		args = append(args, pq.Array(match.Artists))
		argIdx++
	}
	if len(match.Genres) > 0 {
		clauses = append(clauses, fmt.Sprintf("genres && $%d", argIdx))
		args = append(args, pq.Array(match.Genres))
		argIdx++
	}
	if len(match.Tags) > 0 {
		clauses = append(clauses, fmt.Sprintf("tags && $%d", argIdx))
		args = append(args, pq.Array(match.Tags))
		argIdx++
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM songs
		WHERE (%s)`, songColumns, strings.Join(clauses, " OR "))

	if len(excludeIDs) > 0 {
		query += fmt.Sprintf(" AND NOT (id = ANY($%d))", argIdx)
		args = append(args, pq.Array(excludeIDs))
		argIdx++
	}

	query += " ORDER BY id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query songs by attributes: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// SearchSongs runs a ranked full-text search over the catalog.
func (s *Store) SearchSongs(ctx context.Context, term string) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM songs
		WHERE %s @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(%s, plainto_tsquery('english', $1)) DESC
		LIMIT 20
	`, songColumns, searchDocument, searchDocument), term)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// DistinctArtists lists every artist name appearing in the catalog, sorted.
func (s *Store) DistinctArtists(ctx context.Context) ([]string, error) {
	return s.distinctArrayValues(ctx, "artists")
}

// DistinctGenres lists every genre appearing in the catalog, sorted.
func (s *Store) DistinctGenres(ctx context.Context) ([]string, error) {
	return s.distinctArrayValues(ctx, "genres")
}

func (s *Store) distinctArrayValues(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT DISTINCT unnest(%s) AS value
		FROM songs
		ORDER BY value ASC
	`, column))
	if err != nil {
		return nil, fmt.Errorf("query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}

	return values, nil
}

func collectSongs(rows *sql.Rows) ([]Song, error) {
	var songs []Song
	for rows.Next() {
		var (
			song Song
			album sql.NullString
			year  sql.NullInt32
		)
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			pq.Array(&song.Artists),
			&album,
			pq.Array(&song.Genres),
			&year,
			pq.Array(&song.Tags),
		); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		if album.Valid {
			song.Album = album.String
		}
		if year.Valid {
			song.ReleaseYear = int(year.Int32)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}
