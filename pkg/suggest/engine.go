// Package suggest derives fair-probability bet suggestions from grouped
// bookmaker quotes: de-vigged consensus probabilities with robustness
// signals, optionally blended with a rating strategy or overridden by
// externally supplied model predictions.
package suggest

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/oddsmath"
	"github.com/cypherlabdev/odds-insight-service/pkg/rating"
)

// Options control one suggestion computation. All numeric fields are assumed
// pre-clamped by the caller.
type Options struct {
	// MinBooks is the minimum number of distinct bookmakers that must quote
	// an outcome before it can produce a suggestion.
	MinBooks int
	// MinEV drops outcomes whose expected value falls below it.
	MinEV float64
	// Limit truncates the ranked output.
	Limit int
	// PrioritizeSportPrefix, when set, buckets matching sports first in the
	// final ordering (e.g. "tennis_").
	PrioritizeSportPrefix string
	// StrategyFor returns the rating strategy for a sport key, or nil when
	// the vertical has none. Nil function disables blending entirely.
	StrategyFor func(sportKey string) rating.Strategy
	// Predictions maps PredictionKey(...) to an externally supplied
	// probability that replaces the computed fair probability outright.
	Predictions map[string]float64
}

// Engine computes suggestions from snapshot rows. Stateless; safe to share.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a suggestion engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger.With().Str("component", "suggest_engine").Logger()}
}

// PredictionKey builds the lookup key for external model predictions.
func PredictionKey(eventID, marketKey string, line *float64, outcomeKey string) string {
	return strings.Join([]string{eventID, marketKey, lineKey(line), outcomeKey}, "|")
}

func lineKey(line *float64) string {
	if line == nil {
		return ""
	}
	return strconv.FormatFloat(*line, 'g', -1, 64)
}

func groupKey(q models.OddsQuote) string {
	return strings.Join([]string{q.EventID, q.MarketKey, lineKey(q.Line)}, "|")
}

func outcomeGroupKey(q models.OddsQuote) string {
	return strings.Join([]string{q.MarketKey, lineKey(q.Line), q.OutcomeKey}, "|")
}

// latestRows keeps, per event, only the rows at that event's newest snapshot
// timestamp. Ties at the exact max timestamp are all retained.
func latestRows(rows []models.OddsQuote) []models.OddsQuote {
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

type outcomeStats struct {
	implied    []float64
	bookmakers map[string]struct{}
	best       *models.OddsQuote
}

// Compute derives ranked suggestions from the given snapshot rows. Zero rows
// yield an empty result, not an error; per-row defects are skipped silently.
func (e *Engine) Compute(rows []models.OddsQuote, opts Options) []models.Suggestion {
	if len(rows) == 0 {
		return nil
	}

	groups := make(map[string][]models.OddsQuote)
	for _, r := range latestRows(rows) {
		k := groupKey(r)
		groups[k] = append(groups[k], r)
	}

	var suggestions []models.Suggestion

	for _, groupRows := range groups {
		suggestions = append(suggestions, e.computeGroup(groupRows, opts)...)
	}

	prefix := opts.PrioritizeSportPrefix
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if prefix != "" {
			aHit := strings.HasPrefix(a.SportKey, prefix)
			bHit := strings.HasPrefix(b.SportKey, prefix)
			if aHit != bHit {
				return aHit
			}
		}
		if a.BestPrice != b.BestPrice {
			return a.BestPrice < b.BestPrice
		}
		if a.Disagreement != b.Disagreement {
			return a.Disagreement < b.Disagreement
		}
		if a.FairProb != b.FairProb {
			return a.FairProb > b.FairProb
		}
		return a.EV > b.EV
	})

	if opts.Limit > 0 && len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}

	e.logger.Debug().
		Int("rows", len(rows)).
		Int("groups", len(groups)).
		Int("suggestions", len(suggestions)).
		Msg("computed suggestions")

	return suggestions
}

// computeGroup handles one (event, market, line) group.
func (e *Engine) computeGroup(groupRows []models.OddsQuote, opts Options) []models.Suggestion {
	stats := make(map[string]*outcomeStats)

	for i := range groupRows {
		row := &groupRows[i]
		implied, ok := oddsmath.ImpliedProbability(row.Price)
		if !ok {
			continue
		}

		k := outcomeGroupKey(*row)
		st := stats[k]
		if st == nil {
			st = &outcomeStats{bookmakers: make(map[string]struct{})}
			stats[k] = st
		}
		st.implied = append(st.implied, implied)
		st.bookmakers[row.Bookmaker] = struct{}{}

		// Best for this product is the lowest decimal price: the safer,
		// smaller-odds pick for a rollover-style strategy.
		if st.best == nil || row.Price < st.best.Price {
			st.best = row
		}
	}

	type survivor struct {
		key          string
		median       float64
		bookCount    int
		disagreement float64
	}

	var survivors []survivor
	sum := 0.0
	for k, st := range stats {
		if len(st.bookmakers) < opts.MinBooks {
			continue
		}
		med := oddsmath.Median(st.implied)
		if math.IsNaN(med) || med <= 0 {
			continue
		}
		survivors = append(survivors, survivor{
			key:          k,
			median:       med,
			bookCount:    len(st.bookmakers),
			disagreement: oddsmath.SampleStdDev(st.implied),
		})
		sum += med
	}

	if sum <= 0 {
		return nil
	}

	// One home-side strategy probability per group, shared by both sides.
	eloHomeProb, eloWeight, haveElo := e.groupStrategyProb(groupRows, opts)

	var out []models.Suggestion
	for _, s := range survivors {
		best := stats[s.key].best

		fairProb := s.median / sum
		if haveElo && (best.OutcomeKey == models.OutcomeHome || best.OutcomeKey == models.OutcomeAway) {
			eloProb := eloHomeProb
			if best.OutcomeKey == models.OutcomeAway {
				eloProb = 1 - eloHomeProb
			}
			fairProb = (1-eloWeight)*fairProb + eloWeight*eloProb
		}

		// External model prediction is the highest-trust signal: it replaces
		// the computed probability entirely, bypassing blending.
		if p, ok := opts.Predictions[PredictionKey(best.EventID, best.MarketKey, best.Line, best.OutcomeKey)]; ok {
			fairProb = p
		}

		ev := fairProb*best.Price - 1
		if ev < opts.MinEV {
			continue
		}

		out = append(out, models.Suggestion{
			EventID:         best.EventID,
			SportKey:        best.SportKey,
			CommenceTimeUTC: best.CommenceTimeUTC,
			HomeName:        best.HomeName,
			AwayName:        best.AwayName,
			MarketKey:       best.MarketKey,
			Line:            best.Line,
			OutcomeKey:      best.OutcomeKey,
			OutcomeName:     best.OutcomeName,
			BestBookmaker:   best.Bookmaker,
			BestPrice:       best.Price,
			FairProb:        fairProb,
			EV:              ev,
			BookCount:       s.bookCount,
			Disagreement:    s.disagreement,
		})
	}

	return out
}

// groupStrategyProb asks the sport's rating strategy for a home win
// probability, using the group's event metadata. Only h2h groups blend.
func (e *Engine) groupStrategyProb(groupRows []models.OddsQuote, opts Options) (prob, weight float64, ok bool) {
	if opts.StrategyFor == nil || len(groupRows) == 0 {
		return 0, 0, false
	}
	sample := groupRows[0]
	if sample.MarketKey != models.MarketH2H {
		return 0, 0, false
	}
	strategy := opts.StrategyFor(sample.SportKey)
	if strategy == nil {
		return 0, 0, false
	}
	return strategy.HomeWinProb(sample.HomeName, sample.AwayName)
}
