// Package arb finds two-outcome arbitrage pairs across bookmakers, either
// from this system's own odds snapshots or from a third-party advantage
// feed of loosely structured JSON.
package arb

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/oddsmath"
)

const lineEpsilon = 1e-9

// ScanOptions control one snapshot scan. Numeric fields are assumed
// pre-clamped by the caller.
type ScanOptions struct {
	MinRoiPercent float64
	Limit         int
	Now           time.Time
}

// Scanner detects arbitrage opportunities. Stateless; safe to share.
type Scanner struct {
	logger zerolog.Logger
}

// NewScanner creates a scanner.
func NewScanner(logger zerolog.Logger) *Scanner {
	return &Scanner{logger: logger.With().Str("component", "arb_scanner").Logger()}
}

// ScanSnapshots finds guaranteed-profit pairs in the given snapshot rows,
// supporting h2h and spreads markets. Only each event's newest snapshot is
// considered. The result is ranked by descending ROI and truncated.
func (s *Scanner) ScanSnapshots(rows []models.OddsQuote, opts ScanOptions) []models.ArbOpportunity {
	var opportunities []models.ArbOpportunity

	byEvent := make(map[string][]models.OddsQuote)
	for _, r := range latestPerEvent(rows) {
		byEvent[r.EventID] = append(byEvent[r.EventID], r)
	}

	for _, eventRows := range byEvent {
		if opp, ok := s.scanH2H(eventRows, opts); ok {
			opportunities = append(opportunities, opp)
		}
		opportunities = append(opportunities, s.scanSpreads(eventRows, opts)...)
	}

	ranked := Rank(opportunities, opts.Limit)

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("events", len(byEvent)).
		Int("opportunities", len(ranked)).
		Msg("snapshot scan complete")

	return ranked
}

// Rank sorts opportunities by descending ROI and truncates to limit.
func Rank(opportunities []models.ArbOpportunity, limit int) []models.ArbOpportunity {
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].RoiPercent > opportunities[j].RoiPercent
	})
	if limit > 0 && len(opportunities) > limit {
		opportunities = opportunities[:limit]
	}
	return opportunities
}

// latestPerEvent keeps only each event's rows at its newest snapshot
// timestamp. Rows tied at the exact max timestamp are all retained.
func latestPerEvent(rows []models.OddsQuote) []models.OddsQuote {
	latest := make(map[string]int64)
	for _, r := range rows {
		ts := r.SnapshotTimeUTC.UnixNano()
		if cur, ok := latest[r.EventID]; !ok || ts > cur {
			latest[r.EventID] = ts
		}
	}

	kept := make([]models.OddsQuote, 0, len(rows))
	for _, r := range rows {
		if r.SnapshotTimeUTC.UnixNano() == latest[r.EventID] {
			kept = append(kept, r)
		}
	}
	return kept
}

// scanH2H evaluates an event's h2h market. The outcome-key set must be
// exactly {home, away}: a draw key, or any count other than two, disqualifies
// the whole group. Strict two-way pairs only is a product policy, not a data
// artifact to work around.
func (s *Scanner) scanH2H(eventRows []models.OddsQuote, opts ScanOptions) (models.ArbOpportunity, bool) {
	bestByOutcome := make(map[string]models.OddsQuote)
	outcomeKeys := make(map[string]struct{})

	for _, r := range eventRows {
		if r.MarketKey != models.MarketH2H {
			continue
		}
		outcomeKeys[r.OutcomeKey] = struct{}{}

		// Best for arbitrage is the highest payout per unit stake, the
		// opposite convention from the suggestion engine's lowest price.
		if best, ok := bestByOutcome[r.OutcomeKey]; !ok || r.Price > best.Price {
			bestByOutcome[r.OutcomeKey] = r
		}
	}

	if len(outcomeKeys) != 2 {
		return models.ArbOpportunity{}, false
	}
	if _, hasHome := outcomeKeys[models.OutcomeHome]; !hasHome {
		return models.ArbOpportunity{}, false
	}
	if _, hasAway := outcomeKeys[models.OutcomeAway]; !hasAway {
		return models.ArbOpportunity{}, false
	}

	home := bestByOutcome[models.OutcomeHome]
	away := bestByOutcome[models.OutcomeAway]
	if !oddsmath.IsArbitrage(home.Price, away.Price, opts.MinRoiPercent) {
		return models.ArbOpportunity{}, false
	}

	return s.opportunity(home, away, models.MarketH2H, opts.Now), true
}

// scanSpreads evaluates an event's spreads market. Quotes are grouped by the
// absolute line so -3.5 and +3.5 collide into one candidate pair; a valid
// pair needs the two sides' signed lines to be true opposites (or both ~0).
func (s *Scanner) scanSpreads(eventRows []models.OddsQuote, opts ScanOptions) []models.ArbOpportunity {
	type sidePair struct {
		home *models.OddsQuote
		away *models.OddsQuote
	}

	byAbsLine := make(map[float64]*sidePair)
	for i := range eventRows {
		r := &eventRows[i]
		if r.MarketKey != models.MarketSpreads || r.Line == nil {
			continue
		}
		if r.OutcomeKey != models.OutcomeHome && r.OutcomeKey != models.OutcomeAway {
			continue
		}

		key := math.Abs(*r.Line)
		pair := byAbsLine[key]
		if pair == nil {
			pair = &sidePair{}
			byAbsLine[key] = pair
		}

		if r.OutcomeKey == models.OutcomeHome {
			if pair.home == nil || r.Price > pair.home.Price {
				pair.home = r
			}
		} else {
			if pair.away == nil || r.Price > pair.away.Price {
				pair.away = r
			}
		}
	}

	var out []models.ArbOpportunity
	for _, pair := range byAbsLine {
		if pair.home == nil || pair.away == nil {
			continue
		}
		if !oppositeLines(*pair.home.Line, *pair.away.Line) {
			continue
		}
		if !oddsmath.IsArbitrage(pair.home.Price, pair.away.Price, opts.MinRoiPercent) {
			continue
		}
		out = append(out, s.opportunity(*pair.home, *pair.away, models.MarketSpreads, opts.Now))
	}
	return out
}

// oppositeLines reports whether two signed handicap lines form a valid
// two-way pair: true opposites (-x / +x) or both effectively zero.
func oppositeLines(a, b float64) bool {
	if math.Abs(a) < lineEpsilon && math.Abs(b) < lineEpsilon {
		return true
	}
	if a*b >= 0 {
		return false
	}
	return math.Abs(math.Abs(a)-math.Abs(b)) < lineEpsilon
}

func (s *Scanner) opportunity(legA, legB models.OddsQuote, marketKey string, now time.Time) models.ArbOpportunity {
	labelA := legA.HomeName
	if labelA == "" {
		labelA = legA.OutcomeName
	}
	labelB := legB.AwayName
	if labelB == "" {
		labelB = legB.OutcomeName
	}

	return models.ArbOpportunity{
		EventID:      legA.EventID,
		Sport:        legA.SportKey,
		StartTimeUTC: legA.CommenceTimeUTC,
		MarketKey:    marketKey,
		LegA: models.ArbLeg{
			Odds:      legA.Price,
			Bookmaker: legA.Bookmaker,
			Label:     labelA,
			Line:      legA.Line,
		},
		LegB: models.ArbLeg{
			Odds:      legB.Price,
			Bookmaker: legB.Bookmaker,
			Label:     labelB,
			Line:      legB.Line,
		},
		RoiPercent:     oddsmath.RoiPercent(legA.Price, legB.Price),
		ImpliedSum:     oddsmath.ImpliedSum(legA.Price, legB.Price),
		LastUpdatedUTC: now.UTC(),
	}
}
