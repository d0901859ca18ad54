package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"cadence/internal/auth"
	"cadence/internal/store"
)

// UserService captures the account and profile operations the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password, name string) (store.Profile, string, error)
	Login(ctx context.Context, username, password string) (store.Profile, string, error)
	Profile(ctx context.Context, username string) (store.Profile, error)
	UpdateProfile(ctx context.Context, username, name string, favoriteArtists, favoriteGenres []string) (store.Profile, error)
	AddFriend(ctx context.Context, username, friend string) error
	ListOthers(ctx context.Context, username string) ([]store.UserRef, error)
}

// SongService exposes catalog browsing operations.
type SongService interface {
	List(ctx context.Context) ([]store.Song, error)
	Search(ctx context.Context, term string) ([]store.Song, error)
	AllArtists(ctx context.Context) ([]string, error)
	AllGenres(ctx context.Context) ([]string, error)
}

// InteractionService records interaction events and reads per-user activity.
type InteractionService interface {
	Record(ctx context.Context, username string, songID int64, action string) (store.Interaction, error)
	Likes(ctx context.Context, username string) ([]store.Song, error)
	History(ctx context.Context, username string) ([]store.Song, error)
}

// RecommendationService computes the five carousels.
type RecommendationService interface {
	ContentBased(ctx context.Context, username string) ([]store.Song, error)
	UserBased(ctx context.Context, username string) ([]store.Song, error)
	Popular(ctx context.Context) ([]store.Song, error)
	ProfileBased(ctx context.Context, username string) ([]store.Song, error)
	FriendBased(ctx context.Context, username string) ([]store.Song, error)
}

// TokenVerifier resolves a bearer token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users        UserService
	songs        SongService
	interactions InteractionService
	recs         RecommendationService
	tokens       TokenVerifier
}

// New configures a Server with the given service implementations.
func New(users UserService, songs SongService, interactions InteractionService, recs RecommendationService, tokens TokenVerifier) *Server {
	return &Server{
		users:        users,
		songs:        songs,
		interactions: interactions,
		recs:         recs,
		tokens:       tokens,
	}
}

// Routes exposes the HTTP handlers for the application.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes (public)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Song and interaction routes
	mux.HandleFunc("GET /api/songs", s.handleListSongs)
	mux.HandleFunc("GET /api/songs/search", s.handleSearchSongs)
	mux.HandleFunc("POST /api/songs/{id}/interact", s.handleInteract)
	mux.HandleFunc("GET /api/me/likes", s.handleLikes)
	mux.HandleFunc("GET /api/me/history", s.handleHistory)

	// Profile and friend routes
	mux.HandleFunc("GET /api/me/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/me/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /api/me/friends", s.handleAddFriend)

	// Recommendation carousels
	mux.HandleFunc("GET /api/recs/content-based", s.handleContentBasedRecs)
	mux.HandleFunc("GET /api/recs/user-based", s.handleUserBasedRecs)
	mux.HandleFunc("GET /api/recs/popular", s.handlePopularRecs)
	mux.HandleFunc("GET /api/recs/profile-based", s.handleProfileBasedRecs)
	mux.HandleFunc("GET /api/recs/friend-based", s.handleFriendBasedRecs)

	// Selection-list data routes
	mux.HandleFunc("GET /api/data/all-artists", s.handleAllArtists)
	mux.HandleFunc("GET /api/data/all-genres", s.handleAllGenres)
	mux.HandleFunc("GET /api/data/all-users", s.handleAllUsers)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// username authenticates the request and returns the caller's username.
// A zero username means the error response has already been written.
func (s *Server) username(w http.ResponseWriter, r *http.Request) string {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return ""
	}

	username, err := s.tokens.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidToken.Error()})
		return ""
	}
	return username
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeSongs renders a carousel or listing as a bare JSON array, never null.
func writeSongs(w http.ResponseWriter, songs []store.Song) {
	if songs == nil {
		songs = []store.Song{}
	}
	writeJSON(w, http.StatusOK, songs)
}
