package main

import (
	"net/http"

	"cadence/internal/app/interactions"
	"cadence/internal/app/recs"
	"cadence/internal/app/songs"
	"cadence/internal/app/users"
	"cadence/internal/auth"
	"cadence/internal/http/middleware"
	"cadence/internal/httpapi"
	"cadence/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userSvc := users.New(dataStore, tokens)
	songSvc := songs.New(dataStore)
	interactionSvc := interactions.New(dataStore)
	recSvc := recs.New(dataStore, dataStore, dataStore)

	routes := httpapi.New(userSvc, songSvc, interactionSvc, recSvc, tokens).Routes()

	return middleware.RequestLogging()(middleware.CORS(cfg.AllowedOrigins)(routes))
}
