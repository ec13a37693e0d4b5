package arb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

var feedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func feedOpts() FeedOptions {
	return FeedOptions{Now: feedNow, HoursAhead: 24, Limit: 100}
}

func parseDoc(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

// TestParseFeed_BareArray tests a top-level array document with plain legs
func TestParseFeed_BareArray(t *testing.T) {
	doc := parseDoc(t, `[
		{
			"id": "evt-1",
			"sport": "basketball_nba",
			"home_team": "Lakers",
			"away_team": "Celtics",
			"commence_time": "2026-09-01T18:00:00Z",
			"legs": [
				{"bookmaker": "book-x", "selection": "Lakers", "odds": 2.10},
				{"bookmaker": "book-y", "selection": "Celtics", "odds": 2.05}
			]
		}
	]`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 1)

	opp := got[0]
	assert.Equal(t, "evt-1", opp.EventID)
	assert.Equal(t, models.MarketH2H, opp.MarketKey)
	assert.Equal(t, "Lakers", opp.LegA.Label)
	assert.Equal(t, "Celtics", opp.LegB.Label)
	assert.Equal(t, 2.10, opp.LegA.Odds)
	assert.Equal(t, 2.05, opp.LegB.Odds)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), opp.StartTimeUTC)
}

// TestParseFeed_ContainerVariants tests unwrapping of every known top-level
// container and leg container name.
func TestParseFeed_ContainerVariants(t *testing.T) {
	containers := []string{"advantages", "results", "data", "items"}
	legFields := []string{"legs", "bets", "outcomes"}

	for i, container := range containers {
		legField := legFields[i%len(legFields)]
		doc := parseDoc(t, `{
			"`+container+`": [
				{
					"event_id": "evt-1",
					"sportKey": "soccer_epl",
					"`+legField+`": [
						{"book": "x", "pick": "Arsenal", "price": 2.10},
						{"site": "y", "team": "Chelsea", "decimalOdds": 2.05}
					]
				}
			]
		}`)

		got := testScanner().ParseFeed(doc, feedOpts())
		require.Len(t, got, 1, "container %q / legs %q", container, legField)
		assert.Equal(t, "soccer_epl", got[0].Sport)
		assert.Equal(t, "x", got[0].LegA.Bookmaker)
		assert.Equal(t, "y", got[0].LegB.Bookmaker)
	}
}

// TestParseFeed_NestedArbitrageLegs tests the arbitrage.legs nesting
func TestParseFeed_NestedArbitrageLegs(t *testing.T) {
	doc := parseDoc(t, `{"data": [
		{
			"uuid": "evt-9",
			"arbitrage": {"legs": [
				{"operator": "x", "outcome": "Team A", "lineOdds": 2.2},
				{"operator": "y", "outcome": "Team B", "lineOdds": 2.2}
			]}
		}
	]}`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 1)
	assert.Equal(t, "evt-9", got[0].EventID)
}

// TestParseFeed_KeyedObjectContainer tests tolerance for keyed containers
func TestParseFeed_KeyedObjectContainer(t *testing.T) {
	doc := parseDoc(t, `{"items": {
		"first": {
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "A", "odds": 2.10},
				{"bookmaker": "y", "selection": "B", "odds": 2.05}
			]
		}
	}}`)

	got := testScanner().ParseFeed(doc, feedOpts())
	assert.Len(t, got, 1)
}

// TestParseFeed_AmericanOdds tests the shared odds heuristic on feed legs
func TestParseFeed_AmericanOdds(t *testing.T) {
	doc := parseDoc(t, `[
		{
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "A", "americanOdds": 110},
				{"bookmaker": "y", "selection": "B", "americanOdds": "+105"}
			]
		}
	]`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 1)
	assert.InDelta(t, 2.10, got[0].LegA.Odds, 1e-12)
	assert.InDelta(t, 2.05, got[0].LegB.Odds, 1e-12)
}

// TestParseFeed_DrawSynonymsRejected tests draw/x/tie leg rejection
func TestParseFeed_DrawSynonymsRejected(t *testing.T) {
	for _, label := range []string{"Draw", "X", "tie"} {
		doc := parseDoc(t, `[
			{
				"id": "evt-1",
				"legs": [
					{"bookmaker": "x", "selection": "`+label+`", "odds": 3.6},
					{"bookmaker": "y", "selection": "B", "odds": 2.05}
				]
			}
		]`)
		assert.Empty(t, testScanner().ParseFeed(doc, feedOpts()), "label %q", label)
	}
}

// TestParseFeed_LegCountStrict tests that items need exactly two legs
func TestParseFeed_LegCountStrict(t *testing.T) {
	doc := parseDoc(t, `[
		{"id": "one-leg", "legs": [{"bookmaker": "x", "selection": "A", "odds": 2.1}]},
		{"id": "three-legs", "legs": [
			{"bookmaker": "x", "selection": "A", "odds": 3.1},
			{"bookmaker": "y", "selection": "B", "odds": 3.1},
			{"bookmaker": "z", "selection": "C", "odds": 3.1}
		]},
		{"id": "no-legs"}
	]`)

	assert.Empty(t, testScanner().ParseFeed(doc, feedOpts()))
}

// TestParseFeed_SpreadsValidation tests opposite-line enforcement for
// inferred spreads markets.
func TestParseFeed_SpreadsValidation(t *testing.T) {
	valid := parseDoc(t, `[
		{
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "Team A", "odds": 2.10, "handicap": -3.5},
				{"bookmaker": "y", "selection": "Team B", "odds": 2.05, "handicap": 3.5}
			]
		}
	]`)
	got := testScanner().ParseFeed(valid, feedOpts())
	require.Len(t, got, 1)
	assert.Equal(t, models.MarketSpreads, got[0].MarketKey)

	mismatched := parseDoc(t, `[
		{
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "Team A", "odds": 2.10, "handicap": -3.5},
				{"bookmaker": "y", "selection": "Team B", "odds": 2.05, "handicap": 3.0}
			]
		}
	]`)
	assert.Empty(t, testScanner().ParseFeed(mismatched, feedOpts()))
}

// TestParseFeed_TotalsValidation tests identical-line plus over/under
// labeling for totals markets.
func TestParseFeed_TotalsValidation(t *testing.T) {
	valid := parseDoc(t, `[
		{
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "Over 210.5", "odds": 2.10, "total": 210.5},
				{"bookmaker": "y", "selection": "Under 210.5", "odds": 2.05, "total": 210.5}
			]
		}
	]`)
	got := testScanner().ParseFeed(valid, feedOpts())
	require.Len(t, got, 1)
	assert.Equal(t, models.MarketTotals, got[0].MarketKey)
	assert.Equal(t, "Over", got[0].LegA.Label)
	assert.Equal(t, "Under", got[0].LegB.Label)

	differentLines := parseDoc(t, `[
		{
			"id": "evt-1",
			"legs": [
				{"bookmaker": "x", "selection": "Over", "odds": 2.10, "total": 210.5},
				{"bookmaker": "y", "selection": "Under", "odds": 2.05, "total": 211.5}
			]
		}
	]`)
	assert.Empty(t, testScanner().ParseFeed(differentLines, feedOpts()))
}

// TestParseFeed_StartTimeWindow tests the hoursAhead window and the
// missing-time-means-now inclusion rule.
func TestParseFeed_StartTimeWindow(t *testing.T) {
	item := func(id, commence string) string {
		base := `{"id": "` + id + `", `
		if commence != "" {
			base += `"commence_time": "` + commence + `", `
		}
		return base + `"legs": [
			{"bookmaker": "x", "selection": "A", "odds": 2.10},
			{"bookmaker": "y", "selection": "B", "odds": 2.05}
		]}`
	}

	doc := parseDoc(t, `[`+
		item("in-window", "2026-09-01T20:00:00Z")+`,`+
		item("past", "2026-09-01T09:00:00Z")+`,`+
		item("too-far", "2026-09-05T12:00:00Z")+`,`+
		item("no-time", "")+`,`+
		item("garbage-time", "not a timestamp")+
		`]`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 3)

	ids := make(map[string]bool)
	for _, opp := range got {
		ids[opp.EventID] = true
	}
	assert.True(t, ids["in-window"])
	assert.True(t, ids["no-time"])
	assert.True(t, ids["garbage-time"])
}

// TestParseFeed_MalformedItemsSkipped tests that one bad item never fails
// the scan.
func TestParseFeed_MalformedItemsSkipped(t *testing.T) {
	doc := parseDoc(t, `[
		42,
		"not an object",
		{"id": "bad-odds", "legs": [
			{"bookmaker": "x", "selection": "A", "odds": 0.4},
			{"bookmaker": "y", "selection": "B", "odds": 2.05}
		]},
		{"id": "good", "legs": [
			{"bookmaker": "x", "selection": "A", "odds": 2.10},
			{"bookmaker": "y", "selection": "B", "odds": 2.05}
		]}
	]`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].EventID)
}

// TestParseFeed_EventIDFallback tests the composite id when none is present
func TestParseFeed_EventIDFallback(t *testing.T) {
	doc := parseDoc(t, `[
		{
			"sport": "tennis_atp",
			"name": "Alice vs Bob",
			"legs": [
				{"bookmaker": "x", "selection": "Alice", "odds": 2.10},
				{"bookmaker": "y", "selection": "Bob", "odds": 2.05}
			]
		}
	]`)

	got := testScanner().ParseFeed(doc, feedOpts())
	require.Len(t, got, 1)
	assert.Equal(t, "tennis_atp:Alice vs Bob:Alice:Bob", got[0].EventID)
}

// TestParseFeed_EmptyDocument tests nil and unknown shapes
func TestParseFeed_EmptyDocument(t *testing.T) {
	assert.Empty(t, testScanner().ParseFeed(nil, feedOpts()))
	assert.Empty(t, testScanner().ParseFeed(parseDoc(t, `{"unexpected": true}`), feedOpts()))
}
