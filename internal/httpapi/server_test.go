package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadence/internal/auth"
	"cadence/internal/store"
)

type stubUserService struct {
	profile store.Profile
	token   string
	err     error

	lastFriend string
}

func (s *stubUserService) Register(ctx context.Context, username, password, name string) (store.Profile, string, error) {
	if s.err != nil {
		return store.Profile{}, "", s.err
	}
	return s.profile, s.token, nil
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (store.Profile, string, error) {
	if s.err != nil {
		return store.Profile{}, "", s.err
	}
	return s.profile, s.token, nil
}

func (s *stubUserService) Profile(ctx context.Context, username string) (store.Profile, error) {
	if s.err != nil {
		return store.Profile{}, s.err
	}
	return s.profile, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (store.Profile, error) {
	if s.err != nil {
		return store.Profile{}, s.err
	}
	return s.profile, nil
}

func (s *stubUserService) AddFriend(ctx context.Context, username, friend string) error {
	s.lastFriend = friend
	return s.err
}

func (s *stubUserService) ListOthers(ctx context.Context, username string) ([]store.UserRef, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []store.UserRef{{ID: 2, Username: "bob"}}, nil
}

type stubSongService struct {
	songs []store.Song
	err   error
}

func (s *stubSongService) List(ctx context.Context) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubSongService) Search(ctx context.Context, term string) ([]store.Song, error) {
	if term == "" {
		return nil, store.ErrInvalidInput
	}
	return s.songs, s.err
}

func (s *stubSongService) AllArtists(ctx context.Context) ([]string, error) {
	return []string{"Eagles", "Queen"}, s.err
}

func (s *stubSongService) AllGenres(ctx context.Context) ([]string, error) {
	return []string{"Pop", "Rock"}, s.err
}

type stubInteractionService struct {
	interaction store.Interaction
	songs       []store.Song
	err         error

	lastSongID int64
	lastAction string
}

func (s *stubInteractionService) Record(ctx context.Context, username string, songID int64, action string) (store.Interaction, error) {
	s.lastSongID = songID
	s.lastAction = action
	if s.err != nil {
		return store.Interaction{}, s.err
	}
	return s.interaction, nil
}

func (s *stubInteractionService) Likes(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubInteractionService) History(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

type stubRecService struct {
	songs []store.Song
	err   error
}

func (s *stubRecService) ContentBased(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubRecService) UserBased(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubRecService) Popular(ctx context.Context) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubRecService) ProfileBased(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

func (s *stubRecService) FriendBased(ctx context.Context, username string) ([]store.Song, error) {
	return s.songs, s.err
}

type stubTokenVerifier struct{}

func (stubTokenVerifier) Verify(token string) (string, error) {
	if token == "valid" {
		return "alice", nil
	}
	return "", auth.ErrInvalidToken
}

type serverStubs struct {
	users        *stubUserService
	songs        *stubSongService
	interactions *stubInteractionService
	recs         *stubRecService
}

func newTestServer() (*Server, *serverStubs) {
	stubs := &serverStubs{
		users:        &stubUserService{},
		songs:        &stubSongService{},
		interactions: &stubInteractionService{},
		recs:         &stubRecService{},
	}
	server := New(stubs.users, stubs.songs, stubs.interactions, stubs.recs, stubTokenVerifier{})
	return server, stubs
}

func doRequest(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	return rec
}

func TestRegisterReturnsTokenAndProfile(t *testing.T) {
	server, stubs := newTestServer()
	stubs.users.profile = store.Profile{ID: 1, Username: "alice", Name: "Alice"}
	stubs.users.token = "issued"

	rec := doRequest(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "secret", "name": "Alice",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string        `json:"token"`
		User  store.Profile `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "issued" || resp.User.Username != "alice" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRegisterConflict(t *testing.T) {
	server, stubs := newTestServer()
	stubs.users.err = store.ErrUserExists

	rec := doRequest(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "secret", "name": "Alice",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	server, stubs := newTestServer()
	stubs.users.err = store.ErrInvalidCredentials

	rec := doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server, _ := newTestServer()

	paths := []string{
		"/api/songs",
		"/api/me/likes",
		"/api/me/profile",
		"/api/recs/content-based",
		"/api/recs/popular",
		"/api/data/all-users",
	}
	for _, path := range paths {
		rec := doRequest(t, server, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, rec.Code)
		}

		rec = doRequest(t, server, http.MethodGet, path, "bogus", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 with bad token, got %d", path, rec.Code)
		}
	}
}

func TestInteractRecordsAction(t *testing.T) {
	server, stubs := newTestServer()
	stubs.interactions.interaction = store.Interaction{ID: 9, Username: "alice", SongID: 7, Action: store.ActionLike}

	rec := doRequest(t, server, http.MethodPost, "/api/songs/7/interact", "valid", map[string]string{"action": "like"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stubs.interactions.lastSongID != 7 || stubs.interactions.lastAction != "like" {
		t.Errorf("service called with songID=%d action=%q", stubs.interactions.lastSongID, stubs.interactions.lastAction)
	}
}

func TestInteractBadSongID(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodPost, "/api/songs/notanumber/interact", "valid", map[string]string{"action": "play"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInteractErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid action", err: store.ErrInvalidAction, wantStatus: http.StatusBadRequest},
		{name: "duplicate like", err: store.ErrDuplicateLike, wantStatus: http.StatusBadRequest},
		{name: "unknown song", err: store.ErrSongNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, stubs := newTestServer()
			stubs.interactions.err = tc.err

			rec := doRequest(t, server, http.MethodPost, "/api/songs/7/interact", "valid", map[string]string{"action": "like"})
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestCarouselReturnsJSONArray(t *testing.T) {
	server, stubs := newTestServer()
	stubs.recs.songs = []store.Song{
		{ID: 1, Title: "Bohemian Rhapsody", Artists: []string{"Queen"}, Genres: []string{"Rock"}},
	}

	for _, path := range []string{
		"/api/recs/content-based",
		"/api/recs/user-based",
		"/api/recs/popular",
		"/api/recs/profile-based",
		"/api/recs/friend-based",
	} {
		rec := doRequest(t, server, http.MethodGet, path, "valid", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}

		var songs []store.Song
		if err := json.Unmarshal(rec.Body.Bytes(), &songs); err != nil {
			t.Fatalf("%s: decode response: %v", path, err)
		}
		if len(songs) != 1 || songs[0].ID != 1 {
			t.Errorf("%s: unexpected songs %v", path, songs)
		}
	}
}

func TestEmptyCarouselIsNotNull(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/recs/content-based", "valid", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/songs/search", "valid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q param, got %d", rec.Code)
	}

	rec = doRequest(t, server, http.MethodGet, "/api/songs/search?q=rock", "valid", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with q param, got %d", rec.Code)
	}
}

func TestAddFriendErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ok", err: nil, wantStatus: http.StatusOK},
		{name: "self", err: store.ErrSelfFriend, wantStatus: http.StatusBadRequest},
		{name: "unknown", err: store.ErrUserNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, stubs := newTestServer()
			stubs.users.err = tc.err

			rec := doRequest(t, server, http.MethodPost, "/api/me/friends", "valid", map[string]string{"friendUsername": "bob"})
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if stubs.users.lastFriend != "bob" {
				t.Errorf("service called with friend %q", stubs.users.lastFriend)
			}
		})
	}
}

func TestAllUsersExcludesRequester(t *testing.T) {
	server, _ := newTestServer()

	rec := doRequest(t, server, http.MethodGet, "/api/data/all-users", "valid", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var users []store.UserRef
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(users) != 1 || users[0].Username != "bob" {
		t.Errorf("unexpected users: %v", users)
	}
}
