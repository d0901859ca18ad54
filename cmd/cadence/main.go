package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"cadence/internal/logging"
	"cadence/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	if err := bootstrap(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}

	handler := newHTTPHandler(cfg, dataStore)

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
