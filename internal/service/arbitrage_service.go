package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/internal/store"
	"github.com/cypherlabdev/odds-insight-service/pkg/arb"
)

const (
	minArbLimit = 1
	maxArbLimit = 500
)

// ArbSource selects where an arbitrage scan reads odds from
type ArbSource string

const (
	// ArbSourceFeed scans the third-party pre-identified advantage feed
	ArbSourceFeed ArbSource = "feed"
	// ArbSourceSnapshots scans the service's own stored snapshots
	ArbSourceSnapshots ArbSource = "snapshots"
)

// ArbitrageConfig holds arbitrage scan defaults
type ArbitrageConfig struct {
	MinRoiPercent float64
	HoursAhead    int
	Limit         int
	FetchLimit    int
}

// ArbitrageQuery holds one scan request's parameters. Zero values fall
// back to configured defaults.
type ArbitrageQuery struct {
	Source        ArbSource
	MinRoiPercent float64
	HoursAhead    int
	Limit         int
}

// ArbitrageStats summarizes one scan for the stats endpoint
type ArbitrageStats struct {
	Source        string    `json:"source"`
	Count         int       `json:"count"`
	BestRoi       float64   `json:"best_roi_percent"`
	AvgRoi        float64   `json:"avg_roi_percent"`
	Sports        []string  `json:"sports"`
	ScannedAtUTC  time.Time `json:"scanned_at_utc"`
}

// ArbitrageService detects two-outcome arbitrage opportunities. Scans are
// always fresh: prices move too fast for a cache to be honest.
type ArbitrageService struct {
	store   Store
	feed    AdvantageFeed
	scanner *arb.Scanner
	config  ArbitrageConfig
	logger  zerolog.Logger
}

// NewArbitrageService creates a new arbitrage service
func NewArbitrageService(
	st Store,
	feed AdvantageFeed,
	scanner *arb.Scanner,
	config ArbitrageConfig,
	logger zerolog.Logger,
) *ArbitrageService {
	return &ArbitrageService{
		store:   st,
		feed:    feed,
		scanner: scanner,
		config:  config,
		logger:  logger.With().Str("component", "arbitrage_service").Logger(),
	}
}

// Scan finds arbitrage opportunities from the requested source
func (s *ArbitrageService) Scan(ctx context.Context, query ArbitrageQuery) ([]models.ArbOpportunity, error) {
	query = s.clampQuery(query)
	now := time.Now().UTC()

	var opportunities []models.ArbOpportunity

	switch query.Source {
	case ArbSourceSnapshots:
		rows, err := s.store.FetchLatestSnapshots(ctx, store.SnapshotFilter{
			From:    now,
			To:      now.Add(time.Duration(query.HoursAhead) * time.Hour),
			MaxRows: s.config.FetchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch snapshots: %w", err)
		}
		opportunities = s.scanner.ScanSnapshots(rows, arb.ScanOptions{
			MinRoiPercent: query.MinRoiPercent,
			Limit:         query.Limit,
			Now:           now,
		})

	case ArbSourceFeed:
		doc, err := s.feed.FetchAdvantages(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch advantage feed: %w", err)
		}
		opportunities = s.scanner.ParseFeed(doc, arb.FeedOptions{
			MinRoiPercent: query.MinRoiPercent,
			Limit:         query.Limit,
			Now:           now,
			HoursAhead:    query.HoursAhead,
		})

	default:
		return nil, fmt.Errorf("unknown arbitrage source %q", query.Source)
	}

	if opportunities == nil {
		opportunities = []models.ArbOpportunity{}
	}

	s.logger.Info().
		Str("source", string(query.Source)).
		Float64("min_roi_percent", query.MinRoiPercent).
		Int("opportunities", len(opportunities)).
		Msg("arbitrage scan complete")

	return opportunities, nil
}

// Stats runs a scan and summarizes it
func (s *ArbitrageService) Stats(ctx context.Context, query ArbitrageQuery) (ArbitrageStats, error) {
	opportunities, err := s.Scan(ctx, query)
	if err != nil {
		return ArbitrageStats{}, err
	}

	stats := ArbitrageStats{
		Source:       string(s.clampQuery(query).Source),
		Count:        len(opportunities),
		ScannedAtUTC: time.Now().UTC(),
	}

	sports := make(map[string]bool)
	var roiSum float64
	for _, opp := range opportunities {
		roiSum += opp.RoiPercent
		if opp.RoiPercent > stats.BestRoi {
			stats.BestRoi = opp.RoiPercent
		}
		if opp.Sport != "" {
			sports[opp.Sport] = true
		}
	}
	if len(opportunities) > 0 {
		stats.AvgRoi = roiSum / float64(len(opportunities))
	}
	for sport := range sports {
		stats.Sports = append(stats.Sports, sport)
	}
	sort.Strings(stats.Sports)

	return stats, nil
}

func (s *ArbitrageService) clampQuery(query ArbitrageQuery) ArbitrageQuery {
	if query.Source == "" {
		query.Source = ArbSourceFeed
	}
	if query.MinRoiPercent < 0 {
		query.MinRoiPercent = s.config.MinRoiPercent
	}
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
	if query.Limit < minArbLimit {
		query.Limit = minArbLimit
	}
	if query.Limit > maxArbLimit {
		query.Limit = maxArbLimit
	}
	return query
}
