package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/cache"
	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/internal/store"
	"github.com/cypherlabdev/odds-insight-service/pkg/rating"
	"github.com/cypherlabdev/odds-insight-service/pkg/suggest"
)

const (
	minHoursAhead      = 1
	maxHoursAhead      = 168
	maxSuggestionLimit = 100
)

// SuggestionConfig holds fair-probability engine defaults and bounds
type SuggestionConfig struct {
	MinBooks        int
	MinEV           float64
	HoursAhead      int
	Limit           int
	PrioritizeSport string
	RatingSport     string // sport-key prefix that gets the Elo blend
	RatingMaxRows   int
	FetchLimit      int
}

// SuggestionQuery holds one request's parameters. Zero values fall back to
// configured defaults. The pointer fields are per-request tuning overrides;
// nil means the configured default applies.
type SuggestionQuery struct {
	SportKey   string
	MarketKey  string
	HoursAhead int
	Limit      int

	MinBooks        *int
	MinEV           *float64
	PrioritizeSport *string
	UseRatingBlend  *bool
}

// hasOverrides reports whether any per-request tuning override is set.
// Overridden queries bypass the cache, which is keyed only on the default
// tuning.
func (q SuggestionQuery) hasOverrides() bool {
	return q.MinBooks != nil || q.MinEV != nil || q.PrioritizeSport != nil || q.UseRatingBlend != nil
}

// SuggestionService computes betting suggestions from stored snapshots,
// with a short-lived cache in front
type SuggestionService struct {
	store    Store
	cache    Cache
	engine   *suggest.Engine
	registry *rating.Registry
	config   SuggestionConfig
	logger   zerolog.Logger
}

// NewSuggestionService creates a new suggestion service. The rating
// registry maps sport-key prefixes to rating strategy builders; the Elo
// builder is registered for the configured rating sport.
func NewSuggestionService(
	st Store,
	c Cache,
	engine *suggest.Engine,
	config SuggestionConfig,
	logger zerolog.Logger,
) *SuggestionService {
	registry := rating.NewRegistry()
	if config.RatingSport != "" {
		registry.Register(config.RatingSport, rating.EloBuilder)
	}

	return &SuggestionService{
		store:    st,
		cache:    c,
		engine:   engine,
		registry: registry,
		config:   config,
		logger:   logger.With().Str("component", "suggestion_service").Logger(),
	}
}

// Registry exposes the strategy registry so additional sport verticals can
// be registered at wiring time
func (s *SuggestionService) Registry() *rating.Registry {
	return s.registry
}

// GetSuggestions returns ranked suggestions for a query, cache-first.
// Queries carrying tuning overrides are computed fresh every time.
func (s *SuggestionService) GetSuggestions(ctx context.Context, query SuggestionQuery) ([]models.Suggestion, error) {
	query = s.clampQuery(query)

	if query.hasOverrides() {
		return s.computeSuggestions(ctx, query)
	}

	key := cache.SuggestionsKey(query.SportKey, query.MarketKey, query.HoursAhead, query.Limit)
	if cached, err := s.cache.GetSuggestions(ctx, key); err == nil {
		s.logger.Debug().Str("key", key).Int("count", len(cached)).Msg("cache hit for suggestions")
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		s.logger.Warn().Err(err).Str("key", key).Msg("suggestion cache read failed")
	}

	suggestions, err := s.computeSuggestions(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSuggestions(ctx, key, suggestions); err != nil {
		// Don't fail the request on cache errors
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache suggestions")
	}

	return suggestions, nil
}

func (s *SuggestionService) computeSuggestions(ctx context.Context, query SuggestionQuery) ([]models.Suggestion, error) {
	now := time.Now().UTC()

	rows, err := s.store.FetchLatestSnapshots(ctx, store.SnapshotFilter{
		SportKey:  query.SportKey,
		MarketKey: query.MarketKey,
		From:      now,
		To:        now.Add(time.Duration(query.HoursAhead) * time.Hour),
		MaxRows:   s.config.FetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}
	if len(rows) == 0 {
		return []models.Suggestion{}, nil
	}

	ratingBlend := true
	if query.UseRatingBlend != nil {
		ratingBlend = *query.UseRatingBlend
	}

	var strategies map[string]rating.Strategy
	if ratingBlend {
		strategies = s.buildStrategies(ctx, rows)
	}

	predictions, err := s.fetchPredictions(ctx, rows)
	if err != nil {
		// Predictions are an enrichment, not a requirement
		s.logger.Warn().Err(err).Msg("failed to fetch predictions")
		predictions = nil
	}

	minBooks := s.config.MinBooks
	if query.MinBooks != nil && *query.MinBooks >= 1 {
		minBooks = *query.MinBooks
	}
	minEV := s.config.MinEV
	if query.MinEV != nil {
		minEV = *query.MinEV
	}
	prioritize := s.config.PrioritizeSport
	if query.PrioritizeSport != nil {
		prioritize = *query.PrioritizeSport
	}

	suggestions := s.engine.Compute(rows, suggest.Options{
		MinBooks:              minBooks,
		MinEV:                 minEV,
		Limit:                 query.Limit,
		PrioritizeSportPrefix: prioritize,
		StrategyFor: func(sportKey string) rating.Strategy {
			if _, prefix, ok := s.registry.BuilderFor(sportKey); ok {
				return strategies[prefix]
			}
			return nil
		},
		Predictions: predictions,
	})

	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	s.logger.Info().
		Str("sport_key", query.SportKey).
		Int("snapshot_rows", len(rows)).
		Int("suggestions", len(suggestions)).
		Msg("computed suggestions")

	return suggestions, nil
}

// buildStrategies builds one rating strategy per registered prefix that
// appears in the snapshot rows. A prefix whose history fetch fails is
// skipped; suggestions then fall back to pure odds consensus.
func (s *SuggestionService) buildStrategies(ctx context.Context, rows []models.OddsQuote) map[string]rating.Strategy {
	strategies := make(map[string]rating.Strategy)

	seen := make(map[string]bool)
	for _, row := range rows {
		builder, prefix, ok := s.registry.BuilderFor(row.SportKey)
		if !ok || seen[prefix] {
			continue
		}
		seen[prefix] = true

		results, err := s.store.FetchResultsHistory(ctx, prefix, s.config.RatingMaxRows)
		if err != nil {
			s.logger.Warn().Err(err).Str("prefix", prefix).Msg("failed to fetch results history")
			continue
		}
		strategies[prefix] = builder(results)
	}

	return strategies
}

func (s *SuggestionService) fetchPredictions(ctx context.Context, rows []models.OddsQuote) (map[string]float64, error) {
	seen := make(map[string]bool)
	var eventIDs []string
	for _, row := range rows {
		if !seen[row.EventID] {
			seen[row.EventID] = true
			eventIDs = append(eventIDs, row.EventID)
		}
	}

	preds, err := s.store.FetchPredictions(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, nil
	}

	byKey := make(map[string]float64, len(preds))
	for _, p := range preds {
		byKey[suggest.PredictionKey(p.EventID, p.MarketKey, p.Line, p.OutcomeKey)] = p.PredictedProb
	}
	return byKey, nil
}

func (s *SuggestionService) clampQuery(query SuggestionQuery) SuggestionQuery {
	if query.HoursAhead <= 0 {
		query.HoursAhead = s.config.HoursAhead
	}
	if query.HoursAhead < minHoursAhead {
		query.HoursAhead = minHoursAhead
	}
	if query.HoursAhead > maxHoursAhead {
		query.HoursAhead = maxHoursAhead
	}
	if query.Limit <= 0 {
		query.Limit = s.config.Limit
	}
	if query.Limit > maxSuggestionLimit {
		query.Limit = maxSuggestionLimit
	}
	return query
}
