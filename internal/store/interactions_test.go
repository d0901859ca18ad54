package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestActionValid(t *testing.T) {
	for _, action := range []Action{ActionPlay, ActionLike, ActionSkip} {
		if !action.Valid() {
			t.Errorf("action %q should be valid", action)
		}
	}
	for _, action := range []Action{"", "pause", "LIKE"} {
		if action.Valid() {
			t.Errorf("action %q should be invalid", action)
		}
	}
}

func TestAppendInteractionInvalidAction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.AppendInteraction(context.Background(), "alice", 1, "dance")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no queries should run for an invalid action: %v", err)
	}
}

func TestAppendInteractionDuplicateLike(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = s.AppendInteraction(context.Background(), "alice", 7, ActionLike)
	if !errors.Is(err, ErrDuplicateLike) {
		t.Fatalf("expected ErrDuplicateLike, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no insert should happen after a duplicate pre-check hit: %v", err)
	}
}

func TestAppendInteractionLike(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	now := time.Now()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO interactions").
		WithArgs("alice", int64(7), "like").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ts"}).AddRow(int64(42), now))

	got, err := s.AppendInteraction(context.Background(), "alice", 7, ActionLike)
	if err != nil {
		t.Fatalf("AppendInteraction error: %v", err)
	}

	if got.ID != 42 || got.Username != "alice" || got.SongID != 7 || got.Action != ActionLike {
		t.Errorf("unexpected interaction: %+v", got)
	}
	if !got.Timestamp.Equal(now) {
		t.Errorf("expected timestamp %v, got %v", now, got.Timestamp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppendInteractionPlaySkipsDuplicateCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("INSERT INTO interactions").
		WithArgs("alice", int64(7), "play").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ts"}).AddRow(int64(1), time.Now()))

	if _, err := s.AppendInteraction(context.Background(), "alice", 7, ActionPlay); err != nil {
		t.Fatalf("AppendInteraction error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLikedSongIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT DISTINCT song_id").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"song_id"}).
			AddRow(int64(3)).
			AddRow(int64(9)))

	ids, err := s.LikedSongIDs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LikedSongIDs error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestLikeCountsBySong(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT song_id, COUNT").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"song_id", "like_count"}).
			AddRow(int64(5), int64(12)).
			AddRow(int64(2), int64(7)))

	counts, err := s.LikeCountsBySong(context.Background(), 20)
	if err != nil {
		t.Fatalf("LikeCountsBySong error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 counts, got %d", len(counts))
	}
	if counts[0].SongID != 5 || counts[0].Count != 12 {
		t.Errorf("unexpected first count: %+v", counts[0])
	}
}

func TestLikesByUsersEmptyUserSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	likes, err := s.LikesByUsers(context.Background(), nil, nil, 20, false)
	if err != nil {
		t.Fatalf("LikesByUsers error: %v", err)
	}
	if likes != nil {
		t.Errorf("expected nil result for empty user set, got %v", likes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query should run for an empty user set: %v", err)
	}
}
