package httpapi

import (
	"context"
	"net/http"

	"cadence/internal/store"
)

func (s *Server) handleContentBasedRecs(w http.ResponseWriter, r *http.Request) {
	s.handleUserCarousel(w, r, s.recs.ContentBased)
}

func (s *Server) handleUserBasedRecs(w http.ResponseWriter, r *http.Request) {
	s.handleUserCarousel(w, r, s.recs.UserBased)
}

func (s *Server) handleProfileBasedRecs(w http.ResponseWriter, r *http.Request) {
	s.handleUserCarousel(w, r, s.recs.ProfileBased)
}

func (s *Server) handleFriendBasedRecs(w http.ResponseWriter, r *http.Request) {
	s.handleUserCarousel(w, r, s.recs.FriendBased)
}

func (s *Server) handlePopularRecs(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := s.recs.Popular(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}

func (s *Server) handleUserCarousel(w http.ResponseWriter, r *http.Request, recommend func(ctx context.Context, username string) ([]store.Song, error)) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := recommend(r.Context(), username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}
