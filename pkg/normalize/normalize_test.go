package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// TestOutcomeKey_H2HTeamNames tests mapping of team-name labels to home/away
func TestOutcomeKey_H2HTeamNames(t *testing.T) {
	assert.Equal(t, "home", OutcomeKey("h2h", "  Arsenal ", "Arsenal", "Chelsea"))
	assert.Equal(t, "away", OutcomeKey("h2h", "CHELSEA", "Arsenal", "Chelsea"))
	assert.Equal(t, "draw", OutcomeKey("h2h", "Draw", "Arsenal", "Chelsea"))
}

// TestOutcomeKey_SpreadsTeamNames tests that spreads use the same name mapping
func TestOutcomeKey_SpreadsTeamNames(t *testing.T) {
	assert.Equal(t, "home", OutcomeKey("spreads", "Arsenal", "Arsenal", "Chelsea"))
	assert.Equal(t, "away", OutcomeKey("spreads", "Chelsea", "Arsenal", "Chelsea"))
}

// TestOutcomeKey_Totals tests literal over/under mapping
func TestOutcomeKey_Totals(t *testing.T) {
	assert.Equal(t, "over", OutcomeKey("totals", "Over", "", ""))
	assert.Equal(t, "under", OutcomeKey("totals", " UNDER ", "", ""))
}

// TestOutcomeKey_RawFallback tests that unmapped labels survive as stable keys
func TestOutcomeKey_RawFallback(t *testing.T) {
	// Player names in individual sports do not match team-name context.
	assert.Equal(t, "novak djokovic", OutcomeKey("h2h", "Novak Djokovic", "Carlos Alcaraz", "Jannik Sinner"))
	// Totals with an odd label keep the label.
	assert.Equal(t, "exactly", OutcomeKey("totals", "Exactly", "", ""))
}

// TestOddsValue_Formats tests numeric and string odds parsing
func TestOddsValue_Formats(t *testing.T) {
	v, ok := OddsValue(2.5)
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = OddsValue("  -110 ")
	require.True(t, ok)
	assert.InDelta(t, 1+100.0/110.0, v, 1e-12)

	v, ok = OddsValue(150)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-12)

	_, ok = OddsValue("not a number")
	assert.False(t, ok)
	_, ok = OddsValue("")
	assert.False(t, ok)
	_, ok = OddsValue(nil)
	assert.False(t, ok)
	_, ok = OddsValue(0.95)
	assert.False(t, ok)
}

// TestQuotesFromProviderEvent tests flattening with per-outcome defect skipping
func TestQuotesFromProviderEvent(t *testing.T) {
	point := 2.5
	ev := models.RawProviderEvent{
		ID:           "prov-1",
		SportKey:     "soccer_epl",
		CommenceTime: time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
		HomeTeam:     "Arsenal",
		AwayTeam:     "Chelsea",
		Bookmakers: []models.RawBookmaker{
			{
				Key: "bet365",
				Markets: []models.RawMarket{
					{
						Key: "h2h",
						Outcomes: []models.RawOutcome{
							{Name: "Arsenal", Price: 2.10},
							{Name: "Chelsea", Price: 3.40},
							{Name: "Draw", Price: 0.5}, // invalid price, dropped
						},
					},
					{
						Key: "totals",
						Outcomes: []models.RawOutcome{
							{Name: "Over", Price: 1.90, Point: &point},
							{Name: "Under", Price: 1.90, Point: &point},
						},
					},
				},
			},
			{Key: "", Markets: []models.RawMarket{{Key: "h2h"}}}, // nameless book skipped
		},
	}

	snapshotTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	quotes := QuotesFromProviderEvent("the-odds-api", "evt-42", ev, snapshotTime)

	require.Len(t, quotes, 4)
	for _, q := range quotes {
		assert.Equal(t, "evt-42", q.EventID)
		assert.Equal(t, "the-odds-api", q.Provider)
		assert.Equal(t, "bet365", q.Bookmaker)
		assert.Equal(t, snapshotTime, q.SnapshotTimeUTC)
		assert.Greater(t, q.Price, 1.0)
		assert.NotEqual(t, "", q.ID.String())
	}

	assert.Equal(t, "home", quotes[0].OutcomeKey)
	assert.Equal(t, "away", quotes[1].OutcomeKey)
	assert.Equal(t, "over", quotes[2].OutcomeKey)
	assert.Equal(t, "under", quotes[3].OutcomeKey)
	require.NotNil(t, quotes[2].Line)
	assert.Equal(t, 2.5, *quotes[2].Line)
}
