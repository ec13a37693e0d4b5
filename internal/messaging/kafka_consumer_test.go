package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/odds-insight-service/internal/mocks"
	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// testKafkaConsumerSetup is a helper struct to hold test dependencies
type testKafkaConsumerSetup struct {
	mockIngestor *mocks.MockIngestor
	consumer     *KafkaConsumer
	ctx          context.Context
	ctrl         *gomock.Controller
}

// setupTestKafkaConsumer creates a test consumer with mocked dependencies
func setupTestKafkaConsumer(t *testing.T) *testKafkaConsumerSetup {
	ctrl := gomock.NewController(t)
	mockIngestor := mocks.NewMockIngestor(ctrl)

	config := KafkaConsumerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "raw_odds",
		GroupID: "test-group",
	}
	consumer := NewKafkaConsumer(config, mockIngestor, zerolog.Nop())

	return &testKafkaConsumerSetup{
		mockIngestor: mockIngestor,
		consumer:     consumer,
		ctx:          context.Background(),
		ctrl:         ctrl,
	}
}

// cleanup cleans up test resources
func (s *testKafkaConsumerSetup) cleanup() {
	s.consumer.Close()
	s.ctrl.Finish()
}

func rawOddsMessage(t *testing.T) kafka.Message {
	msg := models.KafkaRawOddsMessage{
		Provider: "the-odds-api",
		Events: []models.RawProviderEvent{
			{
				ID:           "evt-1",
				SportKey:     "tennis_atp",
				CommenceTime: time.Now().Add(2 * time.Hour).UTC(),
				HomeTeam:     "Player A",
				AwayTeam:     "Player B",
			},
		},
		Timestamp: time.Now().UTC(),
		BatchID:   "batch-123",
	}

	value, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

// TestNewKafkaConsumer tests consumer creation
func TestNewKafkaConsumer(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	assert.NotNil(t, setup.consumer)
	assert.NotNil(t, setup.consumer.reader)
	assert.NotNil(t, setup.consumer.ingestor)
	assert.Equal(t, "raw_odds", setup.consumer.reader.Config().Topic)
	assert.Equal(t, "test-group", setup.consumer.reader.Config().GroupID)
}

// TestProcessMessage_Success tests that a valid batch reaches the ingestor
func TestProcessMessage_Success(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	setup.mockIngestor.EXPECT().
		IngestProviderEvents(setup.ctx, "the-odds-api", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, events []models.RawProviderEvent, _ time.Time) (int, error) {
			require.Len(t, events, 1)
			assert.Equal(t, "evt-1", events[0].ID)
			return 2, nil
		})

	err := setup.consumer.processMessage(setup.ctx, rawOddsMessage(t))
	assert.NoError(t, err)
}

// TestProcessMessage_InvalidJSON tests that malformed payloads error out
// so the offset is not committed
func TestProcessMessage_InvalidJSON(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	err := setup.consumer.processMessage(setup.ctx, kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

// TestProcessMessage_IngestFailure tests ingest error propagation
func TestProcessMessage_IngestFailure(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	setup.mockIngestor.EXPECT().
		IngestProviderEvents(setup.ctx, "the-odds-api", gomock.Any(), gomock.Any()).
		Return(0, assert.AnError)

	err := setup.consumer.processMessage(setup.ctx, rawOddsMessage(t))
	assert.Error(t, err)
}

// TestProcessMessage_MissingTimestampDefaults tests that a zero batch
// timestamp falls back to the current time
func TestProcessMessage_MissingTimestampDefaults(t *testing.T) {
	setup := setupTestKafkaConsumer(t)
	defer setup.cleanup()

	msg := models.KafkaRawOddsMessage{
		Provider: "the-odds-api",
		Events:   []models.RawProviderEvent{{ID: "evt-1"}},
		BatchID:  "batch-no-ts",
	}
	value, err := json.Marshal(msg)
	require.NoError(t, err)

	before := time.Now().UTC()
	setup.mockIngestor.EXPECT().
		IngestProviderEvents(setup.ctx, "the-odds-api", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ []models.RawProviderEvent, ts time.Time) (int, error) {
			assert.False(t, ts.Before(before))
			return 0, nil
		})

	err = setup.consumer.processMessage(setup.ctx, kafka.Message{Value: value})
	assert.NoError(t, err)
}
