package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// testRedisCacheSetup is a helper struct to hold test dependencies
type testRedisCacheSetup struct {
	cache     *RedisCache
	miniRedis *miniredis.Miniredis
	ctx       context.Context
}

// setupTestRedisCache creates a test cache with miniredis
func setupTestRedisCache(t *testing.T) *testRedisCacheSetup {
	// Create miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	logger := zerolog.Nop()

	config := RedisCacheConfig{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
		TTL:      2 * time.Minute,
	}

	cache := NewRedisCache(config, logger)
	ctx := context.Background()

	return &testRedisCacheSetup{
		cache:     cache,
		miniRedis: mr,
		ctx:       ctx,
	}
}

// cleanup cleans up test resources
func (s *testRedisCacheSetup) cleanup() {
	s.cache.Close()
	s.miniRedis.Close()
}

func testSuggestions() []models.Suggestion {
	return []models.Suggestion{
		{
			EventID:       "event-123",
			SportKey:      "tennis_atp",
			MarketKey:     models.MarketH2H,
			OutcomeKey:    "home",
			OutcomeName:   "Player A",
			BestBookmaker: "bookie1",
			BestPrice:     2.10,
			FairProb:      0.52,
			EV:            0.092,
			BookCount:     4,
			Disagreement:  0.013,
		},
		{
			EventID:       "event-456",
			SportKey:      "basketball_nba",
			MarketKey:     models.MarketH2H,
			OutcomeKey:    "away",
			OutcomeName:   "Team B",
			BestBookmaker: "bookie2",
			BestPrice:     1.95,
			FairProb:      0.55,
			EV:            0.0725,
			BookCount:     3,
			Disagreement:  0.02,
		},
	}
}

// TestNewRedisCache tests cache creation
func TestNewRedisCache(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	assert.NotNil(t, setup.cache)
	assert.NotNil(t, setup.cache.client)
	assert.Equal(t, 2*time.Minute, setup.cache.ttl)
}

// TestSetSuggestions_GetSuggestions tests a round trip through the cache
func TestSetSuggestions_GetSuggestions(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	key := SuggestionsKey("tennis_atp", "h2h", 24, 30)
	suggestions := testSuggestions()

	err := setup.cache.SetSuggestions(setup.ctx, key, suggestions)
	require.NoError(t, err)

	got, err := setup.cache.GetSuggestions(setup.ctx, key)
	require.NoError(t, err)
	assert.Equal(t, suggestions, got)
}

// TestGetSuggestions_Miss tests retrieval with no cached entry
func TestGetSuggestions_Miss(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	got, err := setup.cache.GetSuggestions(setup.ctx, SuggestionsKey("", "", 24, 30))
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

// TestGetSuggestions_Expired tests that entries expire after the TTL
func TestGetSuggestions_Expired(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	key := SuggestionsKey("tennis_atp", "h2h", 24, 30)
	err := setup.cache.SetSuggestions(setup.ctx, key, testSuggestions())
	require.NoError(t, err)

	// Fast-forward past the TTL
	setup.miniRedis.FastForward(3 * time.Minute)

	_, err = setup.cache.GetSuggestions(setup.ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

// TestSuggestionsKey tests that distinct query shapes get distinct keys
func TestSuggestionsKey(t *testing.T) {
	a := SuggestionsKey("tennis_atp", "h2h", 24, 30)
	b := SuggestionsKey("tennis_atp", "h2h", 48, 30)
	c := SuggestionsKey("", "h2h", 24, 30)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "suggestions:tennis_atp:h2h:24:30", a)
}

// TestInvalidateSuggestions tests that all suggestion keys are dropped
func TestInvalidateSuggestions(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	keys := []string{
		SuggestionsKey("tennis_atp", "h2h", 24, 30),
		SuggestionsKey("basketball_nba", "h2h", 48, 10),
	}
	for _, key := range keys {
		require.NoError(t, setup.cache.SetSuggestions(setup.ctx, key, testSuggestions()))
	}

	err := setup.cache.InvalidateSuggestions(setup.ctx)
	require.NoError(t, err)

	for _, key := range keys {
		_, err := setup.cache.GetSuggestions(setup.ctx, key)
		assert.ErrorIs(t, err, ErrCacheMiss)
	}
}

// TestSetSuggestions_EmptyList tests caching an empty result set
func TestSetSuggestions_EmptyList(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	key := SuggestionsKey("tennis_atp", "h2h", 24, 30)
	err := setup.cache.SetSuggestions(setup.ctx, key, []models.Suggestion{})
	require.NoError(t, err)

	got, err := setup.cache.GetSuggestions(setup.ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestPing tests Redis connectivity check
func TestPing(t *testing.T) {
	setup := setupTestRedisCache(t)
	defer setup.cleanup()

	assert.NoError(t, setup.cache.Ping(setup.ctx))

	setup.miniRedis.Close()
	assert.Error(t, setup.cache.Ping(setup.ctx))
}
