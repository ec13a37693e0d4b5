package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/internal/service"
	"github.com/cypherlabdev/odds-insight-service/pkg/oddsmath"
)

// InsightHandler handles HTTP requests for suggestions, arbitrage scans,
// stake planning, bets and admin operations
type InsightHandler struct {
	suggestions *service.SuggestionService
	arbitrage   *service.ArbitrageService
	bets        *service.BetService
	ingest      service.Ingestor
	store       service.Store
	adminSecret string
	logger      zerolog.Logger
}

// NewInsightHandler creates a new insight HTTP handler
func NewInsightHandler(
	suggestions *service.SuggestionService,
	arbitrage *service.ArbitrageService,
	bets *service.BetService,
	ingest service.Ingestor,
	store service.Store,
	adminSecret string,
	logger zerolog.Logger,
) *InsightHandler {
	return &InsightHandler{
		suggestions: suggestions,
		arbitrage:   arbitrage,
		bets:        bets,
		ingest:      ingest,
		store:       store,
		adminSecret: adminSecret,
		logger:      logger.With().Str("component", "insight_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided mux
func (h *InsightHandler) RegisterRoutes(mux *http.ServeMux) {
	// GET /api/v1/suggestions - ranked fair-probability picks
	mux.HandleFunc("/api/v1/suggestions", h.handleGetSuggestions)

	// GET /api/v1/arbitrage - arbitrage scan
	// GET /api/v1/arbitrage/stats - scan summary
	mux.HandleFunc("/api/v1/arbitrage", h.handleGetArbitrage)
	mux.HandleFunc("/api/v1/arbitrage/stats", h.handleGetArbitrageStats)

	// GET /api/v1/stakeplan - split a bankroll across two legs
	mux.HandleFunc("/api/v1/stakeplan", h.handleGetStakePlan)

	// POST /api/v1/bets - record a pick
	mux.HandleFunc("/api/v1/bets", h.handlePostBet)

	// GET /api/v1/events - upcoming events
	// GET /api/v1/events/:event_id/bets - bets for an event
	mux.HandleFunc("/api/v1/events", h.handleGetEvents)
	mux.HandleFunc("/api/v1/events/", h.handleGetEventBets)

	// POST /api/v1/admin/results - record a final result and settle bets
	// POST /api/v1/admin/ingest - push provider events directly
	mux.HandleFunc("/api/v1/admin/results", h.withAdminAuth(h.handlePostResult))
	mux.HandleFunc("/api/v1/admin/ingest", h.withAdminAuth(h.handlePostIngest))
}

// handleGetSuggestions handles GET /api/v1/suggestions
func (h *InsightHandler) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := service.SuggestionQuery{
		SportKey:        r.URL.Query().Get("sport"),
		MarketKey:       r.URL.Query().Get("market"),
		HoursAhead:      intParam(r, "hours_ahead", 0),
		Limit:           intParam(r, "limit", 0),
		MinBooks:        optionalIntParam(r, "min_books"),
		MinEV:           optionalFloatParam(r, "min_ev"),
		PrioritizeSport: optionalStringParam(r, "prioritize_sport"),
		UseRatingBlend:  optionalBoolParam(r, "use_rating_blend"),
	}

	suggestions, err := h.suggestions.GetSuggestions(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute suggestions")
		h.errorResponse(w, http.StatusInternalServerError, "failed to compute suggestions")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":       len(suggestions),
		"suggestions": suggestions,
	})
}

// handleGetArbitrage handles GET /api/v1/arbitrage
func (h *InsightHandler) handleGetArbitrage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	opportunities, err := h.arbitrage.Scan(r.Context(), h.arbQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("arbitrage scan failed")
		h.errorResponse(w, http.StatusBadGateway, "arbitrage scan failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":            len(opportunities),
		"opportunities":    opportunities,
		"last_updated_utc": time.Now().UTC(),
	})
}

// handleGetArbitrageStats handles GET /api/v1/arbitrage/stats
func (h *InsightHandler) handleGetArbitrageStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := h.arbitrage.Stats(r.Context(), h.arbQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("arbitrage stats failed")
		h.errorResponse(w, http.StatusBadGateway, "arbitrage stats failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, stats)
}

func (h *InsightHandler) arbQuery(r *http.Request) service.ArbitrageQuery {
	return service.ArbitrageQuery{
		Source:        service.ArbSource(r.URL.Query().Get("source")),
		MinRoiPercent: floatParam(r, "min_roi", 0),
		HoursAhead:    intParam(r, "hours_ahead", 0),
		Limit:         intParam(r, "limit", 0),
	}
}

// StakePlanResponse represents the API response for a stake plan. ROI is
// null when the plan is degenerate.
type StakePlanResponse struct {
	StakeA     string   `json:"stake_a"`
	StakeB     string   `json:"stake_b"`
	TotalStake float64  `json:"total_stake"`
	Payout     float64  `json:"payout"`
	Profit     float64  `json:"profit"`
	RoiPercent *float64 `json:"roi_percent"`
}

// handleGetStakePlan handles GET /api/v1/stakeplan
func (h *InsightHandler) handleGetStakePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bankroll, okBankroll := requiredFloatParam(r, "bankroll")
	oddsA, okA := requiredFloatParam(r, "odds_a")
	oddsB, okB := requiredFloatParam(r, "odds_b")
	if !okBankroll || !okA || !okB {
		h.errorResponse(w, http.StatusBadRequest, "bankroll, odds_a and odds_b are required numeric parameters")
		return
	}

	plan := oddsmath.Plan(bankroll, oddsA, oddsB)
	stakeA, stakeB := plan.RoundedStakes()

	resp := StakePlanResponse{
		StakeA:     stakeA.String(),
		StakeB:     stakeB.String(),
		TotalStake: plan.TotalStake,
		Payout:     plan.Payout,
		Profit:     plan.Profit,
	}
	if !math.IsNaN(plan.RoiPercent) {
		roi := plan.RoiPercent
		resp.RoiPercent = &roi
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

// handlePostBet handles POST /api/v1/bets
func (h *InsightHandler) handlePostBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var bet models.Bet
	if err := json.NewDecoder(r.Body).Decode(&bet); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.bets.PlaceBet(r.Context(), bet)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusCreated, created)
}

// handleGetEvents handles GET /api/v1/events
func (h *InsightHandler) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hoursAhead := intParam(r, "hours_ahead", 24)
	if hoursAhead < 1 {
		hoursAhead = 1
	}
	if hoursAhead > 168 {
		hoursAhead = 168
	}
	limit := intParam(r, "limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	now := time.Now().UTC()
	events, err := h.store.UpcomingEvents(r.Context(), now, now.Add(time.Duration(hoursAhead)*time.Hour), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list events")
		h.errorResponse(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// handleGetEventBets handles GET /api/v1/events/:event_id/bets
func (h *InsightHandler) handleGetEventBets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Parse path: /api/v1/events/:event_id/bets
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "bets" {
		h.errorResponse(w, http.StatusBadRequest, "invalid path: expected /api/v1/events/:event_id/bets")
		return
	}

	eventID := parts[0]
	if eventID == "" {
		h.errorResponse(w, http.StatusBadRequest, "event_id is required")
		return
	}

	bets, err := h.bets.ListBets(r.Context(), eventID)
	if err != nil {
		h.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to list bets")
		h.errorResponse(w, http.StatusInternalServerError, "failed to list bets")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"event_id": eventID,
		"count":    len(bets),
		"bets":     bets,
	})
}

// handlePostResult handles POST /api/v1/admin/results
func (h *InsightHandler) handlePostResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var result models.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settled, err := h.bets.RecordResult(r.Context(), result)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"event_id":     result.EventID,
		"winner_key":   result.WinnerKey,
		"bets_settled": settled,
	})
}

// IngestRequest represents the admin ingest request body
type IngestRequest struct {
	Provider string                    `json:"provider"`
	Events   []models.RawProviderEvent `json:"events"`
}

// handlePostIngest handles POST /api/v1/admin/ingest
func (h *InsightHandler) handlePostIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		req.Provider = "manual"
	}
	if len(req.Events) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "events are required")
		return
	}

	inserted, err := h.ingest.IngestProviderEvents(r.Context(), req.Provider, req.Events, time.Now().UTC())
	if err != nil {
		h.logger.Error().Err(err).Msg("admin ingest failed")
		h.errorResponse(w, http.StatusInternalServerError, "ingest failed")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"provider":  req.Provider,
		"events":    len(req.Events),
		"snapshots": inserted,
	})
}

// withAdminAuth guards admin endpoints behind a shared bearer secret.
// Requests are rejected outright when no secret is configured.
func (h *InsightHandler) withAdminAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminSecret == "" {
			h.errorResponse(w, http.StatusServiceUnavailable, "admin endpoints are disabled")
			return
		}

		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != h.adminSecret {
			h.errorResponse(w, http.StatusUnauthorized, "invalid admin credentials")
			return
		}

		next(w, r)
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func floatParam(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func optionalIntParam(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func optionalFloatParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optionalStringParam(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}

func optionalBoolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func requiredFloatParam(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// jsonResponse writes a JSON response
func (h *InsightHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *InsightHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}
