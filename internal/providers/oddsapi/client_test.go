package oddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Regions: "us,eu",
		Markets: "h2h",
	}, zerolog.Nop())

	return client, server
}

// TestFetchOdds_Success tests parsing a featured odds response
func TestFetchOdds_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sports/tennis_atp/odds", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "us,eu", r.URL.Query().Get("regions"))
		assert.Equal(t, "h2h", r.URL.Query().Get("markets"))
		assert.Equal(t, "decimal", r.URL.Query().Get("oddsFormat"))

		w.Header().Set("x-requests-remaining", "480")
		w.Header().Set("x-requests-used", "20")
		w.Write([]byte(`[
			{
				"id": "evt-1",
				"sport_key": "tennis_atp",
				"commence_time": "2026-09-02T14:00:00Z",
				"home_team": "Player A",
				"away_team": "Player B",
				"bookmakers": [
					{
						"key": "bookie1",
						"title": "Bookie One",
						"last_update": "2026-09-01T12:00:00Z",
						"markets": [
							{
								"key": "h2h",
								"outcomes": [
									{"name": "Player A", "price": 2.10},
									{"name": "Player B", "price": 1.80}
								]
							}
						]
					}
				]
			}
		]`))
	})

	events, err := client.FetchOdds(context.Background(), "tennis_atp")
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, "tennis_atp", ev.SportKey)
	assert.Equal(t, "Player A", ev.HomeTeam)
	assert.Equal(t, "Player B", ev.AwayTeam)
	require.Len(t, ev.Bookmakers, 1)
	require.Len(t, ev.Bookmakers[0].Markets, 1)
	require.Len(t, ev.Bookmakers[0].Markets[0].Outcomes, 2)
	assert.Equal(t, 2.10, ev.Bookmakers[0].Markets[0].Outcomes[0].Price)

	// Rate limits picked up from response headers
	limits := client.GetRateLimits()
	assert.Equal(t, 480, limits.RequestsRemaining)
	assert.Equal(t, 20, limits.RequestsUsed)
}

// TestFetchOdds_ClientErrorNotRetried tests that a 401 fails fast
func TestFetchOdds_ClientErrorNotRetried(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid key"}`))
	})

	_, err := client.FetchOdds(context.Background(), "tennis_atp")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

// TestFetchSports tests parsing the sport catalog
func TestFetchSports(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sports", r.URL.Path)
		w.Write([]byte(`[
			{"key": "tennis_atp", "group": "Tennis", "title": "ATP", "active": true},
			{"key": "tennis_wta", "group": "Tennis", "title": "WTA", "active": true},
			{"key": "tennis_itf", "group": "Tennis", "title": "ITF", "active": false},
			{"key": "basketball_nba", "group": "Basketball", "title": "NBA", "active": true}
		]`))
	})

	sports, err := client.FetchSports(context.Background())
	require.NoError(t, err)
	assert.Len(t, sports, 4)
	assert.Equal(t, "tennis_atp", sports[0].Key)
	assert.True(t, sports[0].Active)
}

// TestResolveSportKeys_AliasExpansion tests that a group alias expands to
// active catalog keys while exact keys pass through untouched
func TestResolveSportKeys_AliasExpansion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"key": "tennis_atp", "group": "Tennis", "title": "ATP", "active": true},
			{"key": "tennis_wta", "group": "Tennis", "title": "WTA", "active": true},
			{"key": "tennis_itf", "group": "Tennis", "title": "ITF", "active": false},
			{"key": "basketball_nba", "group": "Basketball", "title": "NBA", "active": true}
		]`))
	})

	resolved, err := client.ResolveSportKeys(context.Background(), []string{"tennis", "basketball_nba"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tennis_atp", "tennis_wta", "basketball_nba"}, resolved)
}

// TestResolveSportKeys_NoCatalogNeeded tests that exact keys skip the
// catalog round trip entirely
func TestResolveSportKeys_NoCatalogNeeded(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	resolved, err := client.ResolveSportKeys(context.Background(), []string{"upcoming", "tennis_atp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"upcoming", "tennis_atp"}, resolved)
	assert.Equal(t, 0, calls)
}
