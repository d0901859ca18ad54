package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// bootstrap ensures the schema exists and seeds the demo catalog on first run.
func bootstrap(ctx context.Context, db *sql.DB) error {
	if err := ensureSchema(ctx, db); err != nil {
		return err
	}
	if err := ensureDemoCatalog(ctx, db); err != nil {
		return err
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			favorite_artists TEXT[] NOT NULL DEFAULT '{}',
			favorite_genres TEXT[] NOT NULL DEFAULT '{}',
			friends TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			artists TEXT[] NOT NULL,
			album TEXT,
			genres TEXT[] NOT NULL DEFAULT '{}',
			release_year INT,
			tags TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			song_id BIGINT NOT NULL REFERENCES songs(id),
			action TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_song_action
			ON interactions (username, song_id, action)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_action_song
			ON interactions (action, song_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ensureDemoCatalog seeds a small starter catalog when the songs table is empty.
func ensureDemoCatalog(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seedSong struct {
		Title   string
		Artists []string
		Genres  []string
		Year    int
		Tags    []string
	}

	catalog := []seedSong{
		{Title: "Bohemian Rhapsody", Artists: []string{"Queen"}, Genres: []string{"Rock"}, Year: 1975, Tags: []string{"Classic Rock", "Epic"}},
		{Title: "Shape of You", Artists: []string{"Ed Sheeran"}, Genres: []string{"Pop"}, Year: 2017, Tags: []string{"Upbeat", "Dance"}},
		{Title: "Smells Like Teen Spirit", Artists: []string{"Nirvana"}, Genres: []string{"Grunge", "Rock"}, Year: 1991, Tags: []string{"90s", "Alternative"}},
		{Title: "Blinding Lights", Artists: []string{"The Weeknd"}, Genres: []string{"Synth-pop", "Pop"}, Year: 2019, Tags: []string{"80s Vibe", "Driving"}},
		{Title: "Hotel California", Artists: []string{"Eagles"}, Genres: []string{"Rock"}, Year: 1976, Tags: []string{"Classic Rock", "Guitar Solo"}},
		{Title: "bad guy", Artists: []string{"Billie Eilish"}, Genres: []string{"Pop", "Electronic"}, Year: 2019, Tags: []string{"Dark", "Minimal"}},
		{Title: "Lose Yourself", Artists: []string{"Eminem"}, Genres: []string{"Hip Hop"}, Year: 2002, Tags: []string{"Inspirational", "Workout"}},
		{Title: "Uptown Funk", Artists: []string{"Mark Ronson", "Bruno Mars"}, Genres: []string{"Funk", "Pop"}, Year: 2014, Tags: []string{"Party", "Feel Good"}},
		{Title: "Despacito", Artists: []string{"Luis Fonsi", "Daddy Yankee"}, Genres: []string{"Reggaeton", "Latin Pop"}, Year: 2017, Tags: []string{"Summer", "Dance"}},
		{Title: "Get Lucky", Artists: []string{"Daft Punk", "Pharrell Williams"}, Genres: []string{"Funk", "Disco"}, Year: 2013, Tags: []string{"Groovy", "Retro"}},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, song := range catalog {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO songs (title, artists, genres, release_year, tags)
			VALUES ($1, $2, $3, $4, $5)
		`, song.Title, pq.Array(song.Artists), pq.Array(song.Genres), song.Year, pq.Array(song.Tags)); err != nil {
			return fmt.Errorf("insert demo song %q: %w", song.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	tx = nil

	log.Info().Int("songs", len(catalog)).Msg("seeded demo catalog")
	return nil
}
