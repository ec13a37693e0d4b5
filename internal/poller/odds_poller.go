package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/providers/oddsapi"
	"github.com/cypherlabdev/odds-insight-service/internal/service"
)

// OddsPoller periodically pulls fresh odds from the upstream provider and
// pushes them through the ingest pipeline. It is an alternative feed to the
// Kafka consumer for deployments without a broker.
type OddsPoller struct {
	provider  service.OddsProvider
	ingestor  service.Ingestor
	sportKeys []string
	interval  time.Duration
	logger    zerolog.Logger
}

// NewOddsPoller creates a new odds poller
func NewOddsPoller(
	provider service.OddsProvider,
	ingestor service.Ingestor,
	sportKeys []string,
	interval time.Duration,
	logger zerolog.Logger,
) *OddsPoller {
	return &OddsPoller{
		provider:  provider,
		ingestor:  ingestor,
		sportKeys: sportKeys,
		interval:  interval,
		logger:    logger.With().Str("component", "odds_poller").Logger(),
	}
}

// Start runs the poll loop until the context is cancelled. The first cycle
// runs immediately.
func (p *OddsPoller) Start(ctx context.Context) error {
	p.logger.Info().
		Dur("interval", p.interval).
		Strs("sport_keys", p.sportKeys).
		Msg("starting odds poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("odds poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle resolves the configured sport keys and ingests one poll's worth
// of odds for each. Per-sport failures are logged and skipped so one bad
// sport does not starve the rest.
func (p *OddsPoller) runCycle(ctx context.Context) {
	resolved, err := p.provider.ResolveSportKeys(ctx, p.sportKeys)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to resolve sport keys")
		return
	}

	snapshotTime := time.Now().UTC()
	totalEvents := 0
	totalQuotes := 0

	for _, sportKey := range resolved {
		events, err := p.provider.FetchOdds(ctx, sportKey)
		if err != nil {
			p.logger.Error().Err(err).Str("sport_key", sportKey).Msg("failed to fetch odds")
			continue
		}
		if len(events) == 0 {
			continue
		}

		inserted, err := p.ingestor.IngestProviderEvents(ctx, oddsapi.ProviderName, events, snapshotTime)
		if err != nil {
			p.logger.Error().Err(err).Str("sport_key", sportKey).Msg("failed to ingest odds")
			continue
		}

		totalEvents += len(events)
		totalQuotes += inserted
	}

	p.logger.Info().
		Int("sports", len(resolved)).
		Int("events", totalEvents).
		Int("quotes", totalQuotes).
		Msg("poll cycle complete")
}
