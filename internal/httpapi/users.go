package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"cadence/internal/store"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  store.Profile `json:"user"`
}

type updateProfileRequest struct {
	Name            string   `json:"name"`
	FavoriteArtists []string `json:"favoriteArtists"`
	FavoriteGenres  []string `json:"favoriteGenres"`
}

type addFriendRequest struct {
	FriendUsername string `json:"friendUsername"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	profile, token, err := s.users.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
		case errors.Is(err, store.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	profile, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, store.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: profile})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	profile, err := s.users.Profile(r.Context(), username)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	profile, err := s.users.UpdateProfile(r.Context(), username, req.Name, req.FavoriteArtists, req.FavoriteGenres)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrInvalidInput):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	var req addFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.users.AddFriend(r.Context(), username, req.FriendUsername); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrSelfFriend), errors.Is(err, store.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrUserNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: req.FriendUsername + " added as a friend"})
}

func (s *Server) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	username := s.username(w, r)
	if username == "" {
		return
	}

	users, err := s.users.ListOthers(r.Context(), username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if users == nil {
		users = []store.UserRef{}
	}
	writeJSON(w, http.StatusOK, users)
}
