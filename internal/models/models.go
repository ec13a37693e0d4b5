package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Market keys supported by the snapshot store and the scanners.
const (
	MarketH2H     = "h2h"
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
)

// Canonical outcome keys produced by normalization. Provider labels that do
// not map to one of these are kept as trimmed lowercase raw labels.
const (
	OutcomeHome  = "home"
	OutcomeAway  = "away"
	OutcomeDraw  = "draw"
	OutcomeOver  = "over"
	OutcomeUnder = "under"
)

// Event is the minimal event metadata joined onto snapshot rows.
type Event struct {
	ID              string    `json:"id"`
	SportKey        string    `json:"sport_key"`
	LeagueKey       string    `json:"league_key,omitempty"`
	CommenceTimeUTC time.Time `json:"commence_time_utc"`
	HomeName        string    `json:"home_name"`
	AwayName        string    `json:"away_name"`
	Status          string    `json:"status"`
}

// OddsQuote is one bookmaker's price for one outcome of one market of one
// event, observed at one instant. Quotes are append-only observations; rows
// are never updated, only superseded by newer snapshot timestamps.
type OddsQuote struct {
	ID              uuid.UUID `json:"id"`
	EventID         string    `json:"event_id"`
	Provider        string    `json:"provider"`
	Bookmaker       string    `json:"bookmaker"`
	MarketKey       string    `json:"market_key"`
	OutcomeKey      string    `json:"outcome_key"`
	OutcomeName     string    `json:"outcome_name,omitempty"`
	Line            *float64  `json:"line,omitempty"`
	Price           float64   `json:"price"` // decimal odds, always > 1
	SnapshotTimeUTC time.Time `json:"snapshot_time_utc"`

	// Event metadata joined by the store on read.
	SportKey        string    `json:"sport_key,omitempty"`
	CommenceTimeUTC time.Time `json:"commence_time_utc,omitempty"`
	HomeName        string    `json:"home_name,omitempty"`
	AwayName        string    `json:"away_name,omitempty"`
}

// Suggestion is one fair-probability pick derived from an outcome group.
type Suggestion struct {
	EventID         string    `json:"event_id"`
	SportKey        string    `json:"sport_key"`
	CommenceTimeUTC time.Time `json:"commence_time_utc"`
	HomeName        string    `json:"home_name"`
	AwayName        string    `json:"away_name"`

	MarketKey string   `json:"market_key"`
	Line      *float64 `json:"line,omitempty"`

	OutcomeKey  string `json:"outcome_key"`
	OutcomeName string `json:"outcome_name,omitempty"`

	BestBookmaker string  `json:"best_bookmaker"`
	BestPrice     float64 `json:"best_price"`

	FairProb float64 `json:"fair_prob"`
	EV       float64 `json:"ev"`

	// Odds-only robustness signals.
	BookCount    int     `json:"book_count"`
	Disagreement float64 `json:"disagreement"`
}

// ArbLeg is one side of a two-outcome arbitrage pair.
type ArbLeg struct {
	Odds      float64  `json:"odds"`
	Bookmaker string   `json:"bookmaker"`
	Label     string   `json:"label"`
	Line      *float64 `json:"line,omitempty"`
}

// ArbOpportunity is a detected pair of mutually exclusive same-market
// outcomes whose best prices guarantee profit. Computed per scan, never
// persisted.
type ArbOpportunity struct {
	EventID      string    `json:"event_id"`
	Sport        string    `json:"sport"`
	League       string    `json:"league,omitempty"`
	StartTimeUTC time.Time `json:"start_time_utc"`

	MarketKey string `json:"market_key"`
	LegA      ArbLeg `json:"leg_a"`
	LegB      ArbLeg `json:"leg_b"`

	RoiPercent     float64 `json:"roi_percent"`
	ImpliedSum     float64 `json:"implied_sum"`
	LastUpdatedUTC time.Time `json:"last_updated_utc"`
}

// Result is one final score with an unambiguous winner key.
type Result struct {
	EventID      string    `json:"event_id"`
	SportKey     string    `json:"sport_key"`
	HomeName     string    `json:"home_name"`
	AwayName     string    `json:"away_name"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	WinnerKey    string    `json:"winner_key"` // home | away | draw
	FinalTimeUTC time.Time `json:"final_time_utc"`
}

// Prediction is an externally supplied model probability for one
// (event, market, line, outcome). Treated as the highest-trust signal.
type Prediction struct {
	EventID          string    `json:"event_id"`
	MarketKey        string    `json:"market_key"`
	OutcomeKey       string    `json:"outcome_key"`
	Line             *float64  `json:"line,omitempty"`
	ModelVersion     string    `json:"model_version"`
	PredictedProb    float64   `json:"predicted_prob"`
	GeneratedTimeUTC time.Time `json:"generated_time_utc"`
}

// Bet is an informal pick logged against an event. Money fields use decimal
// so settlement payouts round the way a ledger would.
type Bet struct {
	ID            uuid.UUID       `json:"id"`
	EventID       string          `json:"event_id"`
	FriendName    string          `json:"friend_name"`
	MarketKey     string          `json:"market_key"`
	OutcomeKey    string          `json:"outcome_key"`
	OutcomeName   string          `json:"outcome_name,omitempty"`
	Line          *float64        `json:"line,omitempty"`
	OddsPriceUsed float64         `json:"odds_price_used"`
	Stake         decimal.Decimal `json:"stake"`
	PlacedTimeUTC time.Time       `json:"placed_time_utc"`
	Settlement    string          `json:"settlement,omitempty"` // "", "win", "lose"
	Payout        decimal.Decimal `json:"payout"`
}

// RawOutcome is one provider-shaped outcome inside a raw odds payload.
type RawOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// RawMarket is one provider-shaped market inside a raw odds payload.
type RawMarket struct {
	Key      string       `json:"key"`
	Outcomes []RawOutcome `json:"outcomes"`
}

// RawBookmaker is one provider-shaped bookmaker inside a raw odds payload.
type RawBookmaker struct {
	Key     string      `json:"key"`
	Title   string      `json:"title,omitempty"`
	Markets []RawMarket `json:"markets"`
}

// RawProviderEvent is one event as delivered by the odds provider, before
// normalization.
type RawProviderEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []RawBookmaker `json:"bookmakers,omitempty"`
}

// KafkaRawOddsMessage is the message shape on the raw odds topic: one
// provider poll's worth of events.
type KafkaRawOddsMessage struct {
	Provider  string             `json:"provider"`
	Events    []RawProviderEvent `json:"events"`
	Timestamp time.Time          `json:"timestamp"`
	BatchID   string             `json:"batch_id"`
}
