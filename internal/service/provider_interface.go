package service

import (
	"context"
	"time"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// AdvantageFeed is an interface that abstracts the third-party arbitrage
// feed. Responses are untyped; the scanner validates at the boundary.
type AdvantageFeed interface {
	FetchAdvantages(ctx context.Context) (any, error)
}

// OddsProvider is an interface that abstracts the upstream odds API
type OddsProvider interface {
	FetchOdds(ctx context.Context, sportKey string) ([]models.RawProviderEvent, error)
	ResolveSportKeys(ctx context.Context, configured []string) ([]string, error)
}

// Ingestor is an interface that abstracts raw odds batch ingestion,
// consumed by the Kafka pipeline and the admin ingest endpoint
type Ingestor interface {
	IngestProviderEvents(ctx context.Context, provider string, events []models.RawProviderEvent, snapshotTime time.Time) (int, error)
}
