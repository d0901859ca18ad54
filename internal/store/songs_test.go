package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func songRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "artists", "album", "genres", "release_year", "tags"})
}

func TestSongsByIDsEmptySet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	songs, err := s.SongsByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("SongsByIDs error: %v", err)
	}
	if songs != nil {
		t.Errorf("expected nil result for empty id set, got %v", songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query should run for an empty id set: %v", err)
	}
}

func TestSongsByAttributesNoMatchSets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	songs, err := s.SongsByAttributes(context.Background(), AttributeMatch{}, []int64{1}, 20)
	if err != nil {
		t.Fatalf("SongsByAttributes error: %v", err)
	}
	if songs != nil {
		t.Errorf("expected nil result without match sets, got %v", songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query should run without match sets: %v", err)
	}
}

func TestSongsByAttributesScansArrays(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("FROM songs").
		WillReturnRows(songRows().
			AddRow(int64(1), "Bohemian Rhapsody", []byte("{Queen}"), nil, []byte("{Rock}"), int64(1975), []byte(`{"Classic Rock",Epic}`)))

	songs, err := s.SongsByAttributes(context.Background(), AttributeMatch{Genres: []string{"Rock"}}, nil, 0)
	if err != nil {
		t.Fatalf("SongsByAttributes error: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}

	song := songs[0]
	if song.Title != "Bohemian Rhapsody" {
		t.Errorf("unexpected title %q", song.Title)
	}
	if len(song.Artists) != 1 || song.Artists[0] != "Queen" {
		t.Errorf("unexpected artists %v", song.Artists)
	}
	if song.Album != "" {
		t.Errorf("expected empty album, got %q", song.Album)
	}
	if song.ReleaseYear != 1975 {
		t.Errorf("unexpected year %d", song.ReleaseYear)
	}
	if len(song.Tags) != 2 || song.Tags[0] != "Classic Rock" || song.Tags[1] != "Epic" {
		t.Errorf("unexpected tags %v", song.Tags)
	}
}

func TestSearchSongs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("plainto_tsquery").
		WithArgs("rock").
		WillReturnRows(songRows().
			AddRow(int64(5), "Hotel California", []byte("{Eagles}"), nil, []byte("{Rock}"), int64(1976), []byte("{}")))

	songs, err := s.SearchSongs(context.Background(), "rock")
	if err != nil {
		t.Fatalf("SearchSongs error: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != 5 {
		t.Fatalf("unexpected result: %v", songs)
	}
	if len(songs[0].Tags) != 0 {
		t.Errorf("expected no tags, got %v", songs[0].Tags)
	}
}
