package service

import (
	"context"
	"time"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/internal/store"
)

// Store is an interface that abstracts snapshot persistence
// This allows for easier testing and mocking
type Store interface {
	UpsertEvent(ctx context.Context, ev models.Event) error
	InsertSnapshots(ctx context.Context, quotes []models.OddsQuote) error
	FetchLatestSnapshots(ctx context.Context, filter store.SnapshotFilter) ([]models.OddsQuote, error)
	UpcomingEvents(ctx context.Context, from, to time.Time, limit int) ([]models.Event, error)
	FetchResultsHistory(ctx context.Context, sportPrefix string, maxRows int) ([]models.Result, error)
	UpsertResult(ctx context.Context, r models.Result) error
	FetchPredictions(ctx context.Context, eventIDs []string) ([]models.Prediction, error)
	CreateBet(ctx context.Context, bet models.Bet) (models.Bet, error)
	ListBetsForEvent(ctx context.Context, eventID string) ([]models.Bet, error)
	SettleBetsForEvent(ctx context.Context, eventID, winnerKey string) (int, error)
	Ping(ctx context.Context) error
}
