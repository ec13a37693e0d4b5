package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/internal/service"
)

// KafkaConsumer consumes raw provider odds batches from Kafka and feeds
// them through normalization into the snapshot store
type KafkaConsumer struct {
	reader   *kafka.Reader
	ingestor service.Ingestor
	logger   zerolog.Logger
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "raw_odds"
	GroupID string   // e.g., "odds-insight"
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	ingestor service.Ingestor,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1000, // Commit every 1 second
	})

	return &KafkaConsumer{
		reader:   reader,
		ingestor: ingestor,
		logger:   logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("stopping Kafka consumer")
			return c.reader.Close()

		default:
			// Read message
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled {
					return nil
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				continue
			}

			// Process message
			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Str("key", string(msg.Key)).
					Msg("failed to process message")
				// Don't commit if processing failed
				continue
			}

			// Commit message
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to commit message")
			}
		}
	}
}

// processMessage processes a single Kafka message
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	// Parse message
	var kafkaMsg models.KafkaRawOddsMessage
	if err := json.Unmarshal(msg.Value, &kafkaMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	snapshotTime := kafkaMsg.Timestamp
	if snapshotTime.IsZero() {
		snapshotTime = time.Now().UTC()
	}

	c.logger.Debug().
		Str("provider", kafkaMsg.Provider).
		Int("event_count", len(kafkaMsg.Events)).
		Str("batch_id", kafkaMsg.BatchID).
		Msg("processing raw odds batch")

	// Normalize and persist
	inserted, err := c.ingestor.IngestProviderEvents(ctx, kafkaMsg.Provider, kafkaMsg.Events, snapshotTime)
	if err != nil {
		return fmt.Errorf("failed to ingest odds batch: %w", err)
	}

	c.logger.Info().
		Str("provider", kafkaMsg.Provider).
		Int("event_count", len(kafkaMsg.Events)).
		Int("snapshot_count", inserted).
		Str("batch_id", kafkaMsg.BatchID).
		Msg("ingested raw odds batch")

	return nil
}

// Close closes the Kafka reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
