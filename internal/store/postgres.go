package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// SnapshotFilter bounds a latest-snapshot fetch
type SnapshotFilter struct {
	SportKey  string // optional exact sport key
	MarketKey string // optional exact market key
	From      time.Time
	To        time.Time
	MaxRows   int
}

// PostgresStore persists events, odds snapshots, results, predictions and bets
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore creates a store on an existing database handle
func NewPostgresStore(db *sql.DB, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.With().Str("component", "postgres_store").Logger(),
	}
}

// Ping verifies database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertEvent inserts or refreshes an event row keyed by event id
func (s *PostgresStore) UpsertEvent(ctx context.Context, ev models.Event) error {
	const q = `
		INSERT INTO events
		  (id, sport_key, home_name, away_name, commence_time_utc, status)
		VALUES
		  ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		  sport_key         = EXCLUDED.sport_key,
		  home_name         = EXCLUDED.home_name,
		  away_name         = EXCLUDED.away_name,
		  commence_time_utc = EXCLUDED.commence_time_utc,
		  status            = EXCLUDED.status
	`
	_, err := s.db.ExecContext(ctx, q,
		ev.ID, ev.SportKey, ev.HomeName, ev.AwayName, ev.CommenceTimeUTC, ev.Status,
	)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

// InsertSnapshots writes a batch of odds quotes in one transaction.
// Events referenced by the batch must already exist.
func (s *PostgresStore) InsertSnapshots(ctx context.Context, quotes []models.OddsQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO odds_snapshots (
			id, event_id, provider, bookmaker, market_key, outcome_key,
			outcome_name, line, price, snapshot_time_utc
		)
		SELECT * FROM UNNEST(
			$1::uuid[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[],
			$7::text[], $8::decimal[], $9::decimal[], $10::timestamptz[]
		)
	`

	ids := make([]uuid.UUID, len(quotes))
	eventIDs := make([]string, len(quotes))
	providers := make([]string, len(quotes))
	bookmakers := make([]string, len(quotes))
	marketKeys := make([]string, len(quotes))
	outcomeKeys := make([]string, len(quotes))
	outcomeNames := make([]string, len(quotes))
	lines := make([]*float64, len(quotes))
	prices := make([]float64, len(quotes))
	snapshotTimes := make([]time.Time, len(quotes))

	for i, qt := range quotes {
		id := qt.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		ids[i] = id
		eventIDs[i] = qt.EventID
		providers[i] = qt.Provider
		bookmakers[i] = qt.Bookmaker
		marketKeys[i] = qt.MarketKey
		outcomeKeys[i] = qt.OutcomeKey
		outcomeNames[i] = qt.OutcomeName
		lines[i] = qt.Line
		prices[i] = qt.Price
		snapshotTimes[i] = qt.SnapshotTimeUTC
	}

	_, err = tx.ExecContext(ctx, q,
		pq.Array(ids), pq.Array(eventIDs), pq.Array(providers), pq.Array(bookmakers),
		pq.Array(marketKeys), pq.Array(outcomeKeys), pq.Array(outcomeNames),
		pq.Array(lines), pq.Array(prices), pq.Array(snapshotTimes),
	)
	if err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug().Int("rows", len(quotes)).Msg("Inserted odds snapshots")
	return nil
}

// FetchLatestSnapshots returns the newest quote per
// (event, bookmaker, market, outcome, line) for events in the filter window.
func (s *PostgresStore) FetchLatestSnapshots(ctx context.Context, filter SnapshotFilter) ([]models.OddsQuote, error) {
	q := `
		SELECT DISTINCT ON (o.event_id, o.bookmaker, o.market_key, o.outcome_key, COALESCE(o.line, 'NaN'::decimal))
		  o.id, o.event_id, o.provider, o.bookmaker, o.market_key, o.outcome_key,
		  o.outcome_name, o.line, o.price, o.snapshot_time_utc,
		  e.sport_key, e.commence_time_utc, e.home_name, e.away_name
		FROM odds_snapshots o
		JOIN events e ON e.id = o.event_id
		WHERE e.commence_time_utc >= $1 AND e.commence_time_utc <= $2
	`
	args := []any{filter.From, filter.To}

	if filter.SportKey != "" {
		args = append(args, filter.SportKey)
		q += fmt.Sprintf(" AND e.sport_key = $%d", len(args))
	}
	if filter.MarketKey != "" {
		args = append(args, filter.MarketKey)
		q += fmt.Sprintf(" AND o.market_key = $%d", len(args))
	}

	q += ` ORDER BY o.event_id, o.bookmaker, o.market_key, o.outcome_key, COALESCE(o.line, 'NaN'::decimal), o.snapshot_time_utc DESC`

	if filter.MaxRows > 0 {
		args = append(args, filter.MaxRows)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch latest snapshots: %w", err)
	}
	defer rows.Close()

	var quotes []models.OddsQuote
	for rows.Next() {
		var qt models.OddsQuote
		var line sql.NullFloat64
		if err := rows.Scan(
			&qt.ID, &qt.EventID, &qt.Provider, &qt.Bookmaker, &qt.MarketKey, &qt.OutcomeKey,
			&qt.OutcomeName, &line, &qt.Price, &qt.SnapshotTimeUTC,
			&qt.SportKey, &qt.CommenceTimeUTC, &qt.HomeName, &qt.AwayName,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if line.Valid {
			v := line.Float64
			qt.Line = &v
		}
		quotes = append(quotes, qt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return quotes, nil
}

// UpcomingEvents lists events commencing inside the window, soonest first
func (s *PostgresStore) UpcomingEvents(ctx context.Context, from, to time.Time, limit int) ([]models.Event, error) {
	const q = `
		SELECT id, sport_key, home_name, away_name, commence_time_utc, status
		FROM events
		WHERE commence_time_utc >= $1 AND commence_time_utc <= $2
		ORDER BY commence_time_utc ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.SportKey, &ev.HomeName, &ev.AwayName, &ev.CommenceTimeUTC, &ev.Status); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}

// FetchResultsHistory returns final results for sports matching the prefix,
// oldest first so ratings replay in match order.
func (s *PostgresStore) FetchResultsHistory(ctx context.Context, sportPrefix string, maxRows int) ([]models.Result, error) {
	const q = `
		SELECT r.event_id, e.sport_key, e.home_name, e.away_name,
		  r.home_score, r.away_score, r.winner_key, r.final_time_utc
		FROM results r
		JOIN events e ON e.id = r.event_id
		WHERE e.sport_key LIKE $1 || '%'
		ORDER BY r.final_time_utc ASC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, q, sportPrefix, maxRows)
	if err != nil {
		return nil, fmt.Errorf("fetch results history: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var r models.Result
		if err := rows.Scan(&r.EventID, &r.SportKey, &r.HomeName, &r.AwayName,
			&r.HomeScore, &r.AwayScore, &r.WinnerKey, &r.FinalTimeUTC); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return results, nil
}

// UpsertResult records a final result and marks the event finished
func (s *PostgresStore) UpsertResult(ctx context.Context, r models.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const resultQ = `
		INSERT INTO results (event_id, home_score, away_score, winner_key, final_time_utc)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
		  home_score     = EXCLUDED.home_score,
		  away_score     = EXCLUDED.away_score,
		  winner_key     = EXCLUDED.winner_key,
		  final_time_utc = EXCLUDED.final_time_utc
	`
	if _, err := tx.ExecContext(ctx, resultQ, r.EventID, r.HomeScore, r.AwayScore, r.WinnerKey, r.FinalTimeUTC); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE events SET status = 'final' WHERE id = $1`, r.EventID); err != nil {
		return fmt.Errorf("mark event final: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// FetchPredictions returns manual model probabilities keyed by prediction key
// for the given events.
func (s *PostgresStore) FetchPredictions(ctx context.Context, eventIDs []string) ([]models.Prediction, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	const q = `
		SELECT event_id, market_key, line, outcome_key, model_version, predicted_prob, generated_time_utc
		FROM predictions
		WHERE event_id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, q, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch predictions: %w", err)
	}
	defer rows.Close()

	var preds []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var line sql.NullFloat64
		if err := rows.Scan(&p.EventID, &p.MarketKey, &line, &p.OutcomeKey,
			&p.ModelVersion, &p.PredictedProb, &p.GeneratedTimeUTC); err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		if line.Valid {
			v := line.Float64
			p.Line = &v
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prediction rows: %w", err)
	}
	return preds, nil
}

// CreateBet records an informal pick against an event outcome
func (s *PostgresStore) CreateBet(ctx context.Context, bet models.Bet) (models.Bet, error) {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}
	if bet.PlacedTimeUTC.IsZero() {
		bet.PlacedTimeUTC = time.Now().UTC()
	}
	bet.Settlement = ""
	bet.Payout = decimal.Zero

	const q = `
		INSERT INTO bets (id, event_id, friend_name, market_key, outcome_key, outcome_name,
		  line, odds_price_used, stake, placed_time_utc, settlement, payout)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, q,
		bet.ID, bet.EventID, bet.FriendName, bet.MarketKey, bet.OutcomeKey, bet.OutcomeName,
		bet.Line, bet.OddsPriceUsed, bet.Stake, bet.PlacedTimeUTC, bet.Settlement, bet.Payout,
	)
	if err != nil {
		return models.Bet{}, fmt.Errorf("create bet: %w", err)
	}
	return bet, nil
}

// ListBetsForEvent returns all bets placed against an event, newest first
func (s *PostgresStore) ListBetsForEvent(ctx context.Context, eventID string) ([]models.Bet, error) {
	const q = `
		SELECT id, event_id, friend_name, market_key, outcome_key, outcome_name,
		  line, odds_price_used, stake, placed_time_utc, settlement, payout
		FROM bets
		WHERE event_id = $1
		ORDER BY placed_time_utc DESC
	`
	rows, err := s.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	var bets []models.Bet
	for rows.Next() {
		var b models.Bet
		var line sql.NullFloat64
		if err := rows.Scan(&b.ID, &b.EventID, &b.FriendName, &b.MarketKey, &b.OutcomeKey, &b.OutcomeName,
			&line, &b.OddsPriceUsed, &b.Stake, &b.PlacedTimeUTC, &b.Settlement, &b.Payout); err != nil {
			return nil, fmt.Errorf("scan bet row: %w", err)
		}
		if line.Valid {
			v := line.Float64
			b.Line = &v
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bet rows: %w", err)
	}
	return bets, nil
}

// SettleBetsForEvent settles unsettled h2h bets against a recorded winner.
// A bet wins when its outcome key equals the winner key; payout is stake times
// the odds price recorded at placement.
func (s *PostgresStore) SettleBetsForEvent(ctx context.Context, eventID, winnerKey string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const winQ = `
		UPDATE bets
		SET settlement = 'win', payout = stake * odds_price_used
		WHERE event_id = $1 AND market_key = 'h2h' AND settlement = '' AND outcome_key = $2
	`
	winRes, err := tx.ExecContext(ctx, winQ, eventID, winnerKey)
	if err != nil {
		return 0, fmt.Errorf("settle winning bets: %w", err)
	}

	const loseQ = `
		UPDATE bets
		SET settlement = 'lose', payout = 0
		WHERE event_id = $1 AND market_key = 'h2h' AND settlement = '' AND outcome_key <> $2
	`
	loseRes, err := tx.ExecContext(ctx, loseQ, eventID, winnerKey)
	if err != nil {
		return 0, fmt.Errorf("settle losing bets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	won, _ := winRes.RowsAffected()
	lost, _ := loseRes.RowsAffected()
	settled := int(won + lost)

	s.logger.Info().
		Str("event_id", eventID).
		Str("winner_key", winnerKey).
		Int("settled", settled).
		Msg("Settled bets for event")
	return settled, nil
}
