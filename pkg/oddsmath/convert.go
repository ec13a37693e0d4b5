package oddsmath

import "math"

// ParseDecimalOdds interprets a raw numeric odds value as decimal odds.
//
// The heuristic: any finite value with magnitude >= 100 is treated as
// American odds (+150 → 2.50, -200 → 1.50), anything else is taken as
// already-decimal. Decimal odds of 100+ are implausible in real sports
// markets, so the American interpretation wins the ambiguity.
//
// Values <= 1 or non-finite are invalid and return ok=false; callers must
// drop the quote rather than treat it as zero probability.
func ParseDecimalOdds(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	if math.Abs(v) >= 100 {
		if v > 0 {
			return 1 + v/100, true
		}
		return 1 + 100/math.Abs(v), true
	}

	if v > 1 {
		return v, true
	}
	return 0, false
}

// ImpliedProbability converts decimal odds to the probability the price
// encodes before removing bookmaker margin. Decimal 2.00 → 0.50.
func ImpliedProbability(decimalOdds float64) (float64, bool) {
	if math.IsNaN(decimalOdds) || math.IsInf(decimalOdds, 0) || decimalOdds <= 1 {
		return 0, false
	}
	return 1 / decimalOdds, true
}
