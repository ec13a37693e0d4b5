package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

func result(home, away, winner string) models.Result {
	return models.Result{
		EventID:      "evt",
		SportKey:     "tennis_atp",
		HomeName:     home,
		AwayName:     away,
		WinnerKey:    winner,
		FinalTimeUTC: time.Now().UTC(),
	}
}

// TestRecord_SingleMatch tests the canonical K=24 update: two fresh players,
// home wins, ratings move to 1512/1488.
func TestRecord_SingleMatch(t *testing.T) {
	ix := NewIndex(0)
	ix.Record(result("Alice", "Bob", "home"))

	assert.InDelta(t, 1512, ix.Rating("alice"), 1e-9)
	assert.InDelta(t, 1488, ix.Rating("Bob"), 1e-9)
	assert.Equal(t, 1, ix.GamesPlayed("ALICE "))
	assert.Equal(t, 1, ix.GamesPlayed("bob"))
}

// TestRecord_UnseenPlayerDefaults tests the 1500/0 defaults
func TestRecord_UnseenPlayerDefaults(t *testing.T) {
	ix := NewIndex(24)
	assert.Equal(t, 1500.0, ix.Rating("nobody"))
	assert.Equal(t, 0, ix.GamesPlayed("nobody"))
}

// TestRecord_SkipsAmbiguousAndSelfMatches tests that draws, unknown winners
// and self-matches leave ratings untouched.
func TestRecord_SkipsAmbiguousAndSelfMatches(t *testing.T) {
	ix := NewIndex(24)
	ix.Record(result("Alice", "Bob", "draw"))
	ix.Record(result("Alice", "Bob", ""))
	ix.Record(result("Alice", "alice ", "home"))

	assert.Equal(t, 1500.0, ix.Rating("alice"))
	assert.Equal(t, 1500.0, ix.Rating("bob"))
	assert.Equal(t, 0, ix.GamesPlayed("alice"))
}

// TestBuildIndex_OrderMatters tests that history is replayed oldest-first as
// given: the later result is evaluated against updated ratings.
func TestBuildIndex_OrderMatters(t *testing.T) {
	ix := BuildIndex([]models.Result{
		result("Alice", "Bob", "home"),
		result("Alice", "Bob", "home"),
	}, 24)

	// Second win moves less than 12 points: Alice is now the favorite.
	require.Greater(t, ix.Rating("alice"), 1512.0)
	assert.Less(t, ix.Rating("alice"), 1524.0)
	assert.Equal(t, 2, ix.GamesPlayed("alice"))
}

// TestWinProbability tests the Elo expectation curve
func TestWinProbability(t *testing.T) {
	assert.InDelta(t, 0.5, WinProbability(1500, 1500), 1e-12)
	assert.Greater(t, WinProbability(1600, 1500), 0.5)
	// 400-point gap is the canonical 10:1 expectation.
	assert.InDelta(t, 10.0/11.0, WinProbability(1900, 1500), 1e-9)
}

// TestEloStrategy_WeightRamp tests the min(0.6, games/20) ramp
func TestEloStrategy_WeightRamp(t *testing.T) {
	ix := NewIndex(24)
	// Give Alice and Bob 10 rated matches each against each other.
	for i := 0; i < 10; i++ {
		ix.Record(result("Alice", "Bob", "home"))
	}

	s := NewEloStrategy(ix)
	prob, weight, ok := s.HomeWinProb("Alice", "Bob")
	require.True(t, ok)
	assert.InDelta(t, 0.5, weight, 1e-12) // 10/20
	assert.Greater(t, prob, 0.5)          // Alice keeps winning

	// Unrated matchup contributes nothing.
	_, _, ok = s.HomeWinProb("Carol", "Dave")
	assert.False(t, ok)
}

// TestEloStrategy_WeightCap tests the 0.6 cap with deep history
func TestEloStrategy_WeightCap(t *testing.T) {
	ix := NewIndex(24)
	for i := 0; i < 50; i++ {
		ix.Record(result("Alice", "Bob", "home"))
	}

	s := NewEloStrategy(ix)
	_, weight, ok := s.HomeWinProb("Alice", "Bob")
	require.True(t, ok)
	assert.Equal(t, 0.6, weight)
}

// TestRegistry_PrefixSelection tests longest-prefix builder lookup
func TestRegistry_PrefixSelection(t *testing.T) {
	r := NewRegistry()
	r.Register("tennis_", EloBuilder)

	b, prefix, ok := r.BuilderFor("tennis_atp_us_open")
	require.True(t, ok)
	assert.Equal(t, "tennis_", prefix)
	assert.NotNil(t, b)

	_, _, ok = r.BuilderFor("basketball_nba")
	assert.False(t, ok)
}
