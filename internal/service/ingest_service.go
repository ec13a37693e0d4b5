package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/normalize"
)

// IngestService normalizes raw provider events and persists them as odds
// snapshots. Shared by the Kafka consumer, the poller and the admin
// ingest endpoint.
type IngestService struct {
	store  Store
	cache  Cache
	logger zerolog.Logger
}

// NewIngestService creates a new ingest service. Cache may be nil when no
// invalidation on ingest is wanted.
func NewIngestService(store Store, cache Cache, logger zerolog.Logger) *IngestService {
	return &IngestService{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "ingest_service").Logger(),
	}
}

// IngestProviderEvents upserts event metadata and appends normalized odds
// snapshots. Returns the number of snapshot rows written. Events with no
// parsable quotes are still upserted so they show up as upcoming.
func (s *IngestService) IngestProviderEvents(ctx context.Context, provider string, events []models.RawProviderEvent, snapshotTime time.Time) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if snapshotTime.IsZero() {
		snapshotTime = time.Now().UTC()
	}

	var quotes []models.OddsQuote
	for _, ev := range events {
		if ev.ID == "" {
			s.logger.Warn().Str("provider", provider).Msg("skipping provider event without id")
			continue
		}

		event := models.Event{
			ID:              ev.ID,
			SportKey:        ev.SportKey,
			HomeName:        ev.HomeTeam,
			AwayName:        ev.AwayTeam,
			CommenceTimeUTC: ev.CommenceTime.UTC(),
			Status:          "upcoming",
		}
		if err := s.store.UpsertEvent(ctx, event); err != nil {
			return 0, fmt.Errorf("upsert event %s: %w", ev.ID, err)
		}

		quotes = append(quotes, normalize.QuotesFromProviderEvent(provider, ev.ID, ev, snapshotTime)...)
	}

	if len(quotes) > 0 {
		if err := s.store.InsertSnapshots(ctx, quotes); err != nil {
			return 0, fmt.Errorf("insert snapshots: %w", err)
		}
	}

	// Fresh snapshots make cached suggestion lists stale
	if s.cache != nil {
		if err := s.cache.InvalidateSuggestions(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate suggestion cache")
		}
	}

	s.logger.Info().
		Str("provider", provider).
		Int("events", len(events)).
		Int("snapshots", len(quotes)).
		Msg("ingested provider events")

	return len(quotes), nil
}
