// Package normalize maps heterogeneous provider odds payloads into canonical
// OddsQuote records: decimal prices and stable outcome keys.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/oddsmath"
)

// Name trims and lowercases a label. Used as the join identity for team and
// player names throughout the system.
func Name(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// OutcomeKey derives the canonical outcome key for a provider outcome label.
//
// For h2h and spreads the label is matched against the home/away names
// (normalized) and "draw". Totals map "over"/"under" literally. Anything else
// keeps the normalized label itself as a stable fallback key: provider labels
// are not guaranteed to be team names (player names in individual sports).
func OutcomeKey(marketKey, label, homeName, awayName string) string {
	normalized := Name(label)

	switch marketKey {
	case models.MarketH2H, models.MarketSpreads:
		if home := Name(homeName); home != "" && normalized == home {
			return models.OutcomeHome
		}
		if away := Name(awayName); away != "" && normalized == away {
			return models.OutcomeAway
		}
		if normalized == models.OutcomeDraw {
			return models.OutcomeDraw
		}
	case models.MarketTotals:
		if normalized == models.OutcomeOver {
			return models.OutcomeOver
		}
		if normalized == models.OutcomeUnder {
			return models.OutcomeUnder
		}
	}

	return normalized
}

// OddsValue parses a raw odds field that may be a float, int or numeric
// string, applying the American/decimal heuristic. ok=false means the quote
// carries no usable price and must be dropped by the caller.
func OddsValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return oddsmath.ParseDecimalOdds(v)
	case float32:
		return oddsmath.ParseDecimalOdds(float64(v))
	case int:
		return oddsmath.ParseDecimalOdds(float64(v))
	case int64:
		return oddsmath.ParseDecimalOdds(float64(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return oddsmath.ParseDecimalOdds(n)
	default:
		return 0, false
	}
}

// NumericValue parses a raw line/point field (float or numeric string).
func NumericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// QuotesFromProviderEvent flattens one provider event into quote rows at the
// given snapshot instant. Outcomes with invalid prices are skipped; one
// bookmaker's partial data never aborts the rest of the event.
func QuotesFromProviderEvent(provider, eventID string, ev models.RawProviderEvent, snapshotTime time.Time) []models.OddsQuote {
	var quotes []models.OddsQuote

	for _, bookmaker := range ev.Bookmakers {
		if strings.TrimSpace(bookmaker.Key) == "" {
			continue
		}
		for _, market := range bookmaker.Markets {
			for _, out := range market.Outcomes {
				price, ok := oddsmath.ParseDecimalOdds(out.Price)
				if !ok {
					continue
				}

				quotes = append(quotes, models.OddsQuote{
					ID:              uuid.New(),
					EventID:         eventID,
					Provider:        provider,
					Bookmaker:       bookmaker.Key,
					MarketKey:       market.Key,
					OutcomeKey:      OutcomeKey(market.Key, out.Name, ev.HomeTeam, ev.AwayTeam),
					OutcomeName:     out.Name,
					Line:            out.Point,
					Price:           price,
					SnapshotTimeUTC: snapshotTime.UTC(),
				})
			}
		}
	}

	return quotes
}
