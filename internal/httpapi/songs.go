package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cadence/internal/store"
)

type interactRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := s.songs.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := s.songs.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	var req interactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	interaction, err := s.interactions.Record(r.Context(), username, songID, req.Action)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrInvalidAction), errors.Is(err, store.ErrDuplicateLike):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrSongNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, interaction)
}

func (s *Server) handleLikes(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := s.interactions.Likes(r.Context(), username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	songs, err := s.interactions.History(r.Context(), username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeSongs(w, songs)
}

func (s *Server) handleAllArtists(w http.ResponseWriter, r *http.Request) {
	s.handleDistinct(w, r, s.songs.AllArtists)
}

func (s *Server) handleAllGenres(w http.ResponseWriter, r *http.Request) {
	s.handleDistinct(w, r, s.songs.AllGenres)
}

func (s *Server) handleDistinct(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]string, error)) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	values, err := list(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, values)
}
