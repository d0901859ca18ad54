package interactions

import (
	"context"

	"cadence/internal/store"
)

const historyLimit = 50

// Log describes the interaction-log operations the service needs.
type Log interface {
	AppendInteraction(ctx context.Context, username string, songID int64, action store.Action) (store.Interaction, error)
	LikedSongs(ctx context.Context, username string) ([]store.Song, error)
	RecentlyPlayed(ctx context.Context, username string, limit int) ([]store.Song, error)
}

// Service records interaction events and reads back per-user activity.
type Service interface {
	Record(ctx context.Context, username string, songID int64, action string) (store.Interaction, error)
	Likes(ctx context.Context, username string) ([]store.Song, error)
	History(ctx context.Context, username string) ([]store.Song, error)
}

type service struct {
	log Log
}

// New wires a Service backed by the provided interaction log.
func New(log Log) Service {
	return &service{log: log}
}

func (s *service) Record(ctx context.Context, username string, songID int64, action string) (store.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return store.Interaction{}, err
	}
	return s.log.AppendInteraction(ctx, username, songID, store.Action(action))
}

func (s *service) Likes(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.log.LikedSongs(ctx, username)
}

func (s *service) History(ctx context.Context, username string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.log.RecentlyPlayed(ctx, username, historyLimit)
}
