package arb

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/normalize"
	"github.com/cypherlabdev/odds-insight-service/pkg/oddsmath"
)

// FeedOptions control parsing of a third-party advantage document.
type FeedOptions struct {
	MinRoiPercent float64
	Limit         int
	Now           time.Time
	HoursAhead    int
}

// ParseFeed extracts arbitrage opportunities from a pre-identified advantage
// document of unspecified shape. The feed is treated as untyped data
// validated at the boundary: field names vary by provider version, so every
// lookup tries a list of candidate names and the first typed match wins.
// Malformed items are skipped individually; the scan never fails wholesale.
func (s *Scanner) ParseFeed(doc any, opts FeedOptions) []models.ArbOpportunity {
	items := extractItems(doc)

	windowEnd := opts.Now.Add(time.Duration(opts.HoursAhead) * time.Hour)
	fetchedAt := opts.Now.UTC()

	var opportunities []models.ArbOpportunity
	skipped := 0

	for _, item := range items {
		opp, ok := s.parseItem(item, opts, windowEnd, fetchedAt)
		if !ok {
			skipped++
			continue
		}
		opportunities = append(opportunities, opp)
	}

	ranked := Rank(opportunities, opts.Limit)

	s.logger.Debug().
		Int("items", len(items)).
		Int("skipped", skipped).
		Int("opportunities", len(ranked)).
		Msg("advantage feed parsed")

	return ranked
}

type feedLeg struct {
	bookmaker string
	selection string
	odds      any
	line      any
}

func (s *Scanner) parseItem(item any, opts FeedOptions, windowEnd, fetchedAt time.Time) (models.ArbOpportunity, bool) {
	legs := extractLegs(item)
	if len(legs) != 2 {
		return models.ArbOpportunity{}, false
	}

	selA := strings.TrimSpace(legs[0].selection)
	selB := strings.TrimSpace(legs[1].selection)
	if selA == "" || selB == "" {
		return models.ArbOpportunity{}, false
	}
	// Draw/tie outcomes never form a true two-outcome pair.
	if isDrawLabel(selA) || isDrawLabel(selB) {
		return models.ArbOpportunity{}, false
	}

	oddsA, okA := normalize.OddsValue(legs[0].odds)
	oddsB, okB := normalize.OddsValue(legs[1].odds)
	if !okA || !okB {
		return models.ArbOpportunity{}, false
	}

	marketKey := inferMarketKey(legs)

	lineA, hasLineA := normalize.NumericValue(legs[0].line)
	lineB, hasLineB := normalize.NumericValue(legs[1].line)

	switch marketKey {
	case models.MarketSpreads:
		if !hasLineA || !hasLineB || !oppositeLines(lineA, lineB) {
			return models.ArbOpportunity{}, false
		}
	case models.MarketTotals:
		if !hasLineA || !hasLineB || math.Abs(lineA-lineB) > lineEpsilon {
			return models.ArbOpportunity{}, false
		}
		aLower, bLower := strings.ToLower(selA), strings.ToLower(selB)
		overUnder := strings.Contains(aLower, "over") && strings.Contains(bLower, "under")
		underOver := strings.Contains(aLower, "under") && strings.Contains(bLower, "over")
		if !overUnder && !underOver {
			return models.ArbOpportunity{}, false
		}
	}

	// A missing or unparseable start time means "now": the item is included
	// rather than rejected, since arbitrage windows close quickly anyway.
	startTime := fetchedAt
	if t, ok := parseStartTime(item); ok {
		if t.Before(opts.Now) || t.After(windowEnd) {
			return models.ArbOpportunity{}, false
		}
		startTime = t
	}

	if !oddsmath.IsArbitrage(oddsA, oddsB, opts.MinRoiPercent) {
		return models.ArbOpportunity{}, false
	}

	sport := normText(firstNonNil(
		getProp(item, "sport"), getProp(item, "sport_key"), getProp(item, "sportKey"),
		getPath(item, "league", "sport"), getPath(item, "event", "sport")))
	if sport == "" {
		sport = "unknown"
	}
	league := normText(firstNonNil(
		getProp(item, "league"), getProp(item, "league_key"), getProp(item, "leagueKey"),
		getPath(item, "event", "league")))

	homeName := normText(firstNonNil(
		getProp(item, "home"), getProp(item, "home_team"), getProp(item, "homeTeam"),
		getPath(item, "event", "home"), getPath(item, "event", "home_team")))
	awayName := normText(firstNonNil(
		getProp(item, "away"), getProp(item, "away_team"), getProp(item, "awayTeam"),
		getPath(item, "event", "away"), getPath(item, "event", "away_team")))
	eventName := normText(firstNonNil(
		getProp(item, "event"), getProp(item, "event_name"), getProp(item, "eventName"),
		getProp(item, "match"), getProp(item, "name"), getProp(item, "title")))

	eventID := normText(firstNonNil(
		getProp(item, "id"), getProp(item, "event_id"), getProp(item, "eventId"), getProp(item, "uuid")))
	if eventID == "" {
		eventID = fmt.Sprintf("%s:%s:%s:%s", sport, eventName, selA, selB)
	}

	labelA, labelB := selA, selB
	if marketKey == models.MarketTotals {
		labelA = totalsLabel(selA)
		labelB = totalsLabel(selB)
	} else {
		if homeName != "" {
			labelA = homeName
		}
		if awayName != "" {
			labelB = awayName
		}
	}

	var legLineA, legLineB *float64
	if marketKey != models.MarketH2H {
		if hasLineA {
			legLineA = &lineA
		}
		if hasLineB {
			legLineB = &lineB
		}
	}

	return models.ArbOpportunity{
		EventID:      eventID,
		Sport:        sport,
		League:       league,
		StartTimeUTC: startTime,
		MarketKey:    marketKey,
		LegA: models.ArbLeg{
			Odds:      oddsA,
			Bookmaker: bookmakerOrUnknown(legs[0].bookmaker),
			Label:     labelA,
			Line:      legLineA,
		},
		LegB: models.ArbLeg{
			Odds:      oddsB,
			Bookmaker: bookmakerOrUnknown(legs[1].bookmaker),
			Label:     labelB,
			Line:      legLineB,
		},
		RoiPercent:     oddsmath.RoiPercent(oddsA, oddsB),
		ImpliedSum:     oddsmath.ImpliedSum(oddsA, oddsB),
		LastUpdatedUTC: fetchedAt,
	}, true
}

func bookmakerOrUnknown(s string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return "unknown"
}

func totalsLabel(selection string) string {
	if strings.Contains(strings.ToLower(selection), "under") {
		return "Under"
	}
	return "Over"
}

func isDrawLabel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "x", "tie":
		return true
	}
	return false
}

// inferMarketKey guesses the market kind from the legs: totals when both
// over/under labels appear, spreads when a numeric line is present, else h2h.
func inferMarketKey(legs []feedLeg) string {
	hasOver, hasUnder := false, false
	for _, l := range legs {
		sel := strings.ToLower(l.selection)
		if strings.Contains(sel, "over") {
			hasOver = true
		}
		if strings.Contains(sel, "under") {
			hasUnder = true
		}
	}
	if hasOver && hasUnder {
		return models.MarketTotals
	}

	for _, l := range legs {
		if _, ok := normalize.NumericValue(l.line); ok {
			return models.MarketSpreads
		}
	}
	return models.MarketH2H
}

// extractItems unwraps the document's top-level item container: a bare
// array, or one of the known container fields holding an array or a keyed
// object (whose values are taken in that case).
func extractItems(doc any) []any {
	if arr, ok := doc.([]any); ok {
		return arr
	}
	for _, field := range []string{"advantages", "results", "data", "items"} {
		switch v := getProp(doc, field).(type) {
		case []any:
			return v
		case map[string]any:
			items := make([]any, 0, len(v))
			for _, item := range v {
				items = append(items, item)
			}
			return items
		}
	}
	return nil
}

// extractLegs unwraps an item's leg container and maps each leg's fields
// from their candidate names.
func extractLegs(item any) []feedLeg {
	raw := firstNonNil(
		getProp(item, "legs"),
		getProp(item, "bets"),
		getProp(item, "outcomes"),
		getProp(item, "advantages"),
		getPath(item, "arbitrage", "legs"),
		getPath(item, "arbitrage", "bets"),
	)

	arr, ok := raw.([]any)
	if !ok {
		return nil
	}

	legs := make([]feedLeg, 0, len(arr))
	for _, l := range arr {
		leg := feedLeg{
			bookmaker: normText(firstNonNil(
				getProp(l, "sportsbook"), getProp(l, "bookmaker"), getProp(l, "book"),
				getProp(l, "operator"), getProp(l, "site"), getProp(l, "sportsbookName"))),
			odds: firstNonNil(
				getProp(l, "odds"), getProp(l, "price"), getProp(l, "decimalOdds"),
				getProp(l, "americanOdds"), getProp(l, "lineOdds")),
			selection: normText(firstNonNil(
				getProp(l, "selection"), getProp(l, "pick"), getProp(l, "outcome"),
				getProp(l, "team"), getProp(l, "name"), getProp(l, "side"))),
			line: firstNonNil(
				getProp(l, "line"), getProp(l, "handicap"), getProp(l, "point"), getProp(l, "total")),
		}
		if leg.bookmaker == "" && leg.selection == "" && leg.odds == nil {
			continue
		}
		legs = append(legs, leg)
	}
	return legs
}

func parseStartTime(item any) (time.Time, bool) {
	raw := firstNonNil(
		getProp(item, "startTimeUtc"), getProp(item, "start_time_utc"),
		getProp(item, "start_time"), getProp(item, "commence_time"), getProp(item, "commenceTime"),
		getPath(item, "event", "startTime"), getPath(item, "event", "start_time"),
		getPath(item, "event", "commence_time"))

	text := normText(raw)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func getProp(obj any, key string) any {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func getPath(obj any, path ...string) any {
	cur := obj
	for _, key := range path {
		cur = getProp(cur, key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func firstNonNil(candidates ...any) any {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func normText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
