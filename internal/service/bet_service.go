package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// BetService records informal picks and settles them when results land
type BetService struct {
	store  Store
	logger zerolog.Logger
}

// NewBetService creates a new bet service
func NewBetService(st Store, logger zerolog.Logger) *BetService {
	return &BetService{
		store:  st,
		logger: logger.With().Str("component", "bet_service").Logger(),
	}
}

// PlaceBet validates and records a bet
func (s *BetService) PlaceBet(ctx context.Context, bet models.Bet) (models.Bet, error) {
	bet.FriendName = strings.TrimSpace(bet.FriendName)
	if bet.FriendName == "" {
		return models.Bet{}, fmt.Errorf("friend_name is required")
	}
	if bet.EventID == "" {
		return models.Bet{}, fmt.Errorf("event_id is required")
	}
	if bet.MarketKey == "" {
		bet.MarketKey = models.MarketH2H
	}
	if bet.OutcomeKey == "" {
		return models.Bet{}, fmt.Errorf("outcome_key is required")
	}
	if bet.OddsPriceUsed <= 1 {
		return models.Bet{}, fmt.Errorf("odds_price_used must be greater than 1")
	}
	if bet.Stake.LessThanOrEqual(decimal.Zero) {
		return models.Bet{}, fmt.Errorf("stake must be positive")
	}

	created, err := s.store.CreateBet(ctx, bet)
	if err != nil {
		return models.Bet{}, err
	}

	s.logger.Info().
		Str("bet_id", created.ID.String()).
		Str("event_id", created.EventID).
		Str("outcome_key", created.OutcomeKey).
		Str("stake", created.Stake.String()).
		Msg("placed bet")

	return created, nil
}

// ListBets returns all bets for an event
func (s *BetService) ListBets(ctx context.Context, eventID string) ([]models.Bet, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required")
	}
	bets, err := s.store.ListBetsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if bets == nil {
		bets = []models.Bet{}
	}
	return bets, nil
}

// RecordResult stores a final result and settles open bets against it
func (s *BetService) RecordResult(ctx context.Context, result models.Result) (int, error) {
	if result.EventID == "" {
		return 0, fmt.Errorf("event_id is required")
	}
	switch result.WinnerKey {
	case models.OutcomeHome, models.OutcomeAway, models.OutcomeDraw:
	default:
		return 0, fmt.Errorf("winner_key must be home, away or draw")
	}
	if result.FinalTimeUTC.IsZero() {
		result.FinalTimeUTC = time.Now().UTC()
	}

	if err := s.store.UpsertResult(ctx, result); err != nil {
		return 0, fmt.Errorf("record result: %w", err)
	}

	settled, err := s.store.SettleBetsForEvent(ctx, result.EventID, result.WinnerKey)
	if err != nil {
		return 0, fmt.Errorf("settle bets: %w", err)
	}

	s.logger.Info().
		Str("event_id", result.EventID).
		Str("winner_key", result.WinnerKey).
		Int("settled", settled).
		Msg("recorded result and settled bets")

	return settled, nil
}
