package oddsmath

import (
	"math"

	"github.com/shopspring/decimal"
)

// ImpliedSum returns 1/oddsA + 1/oddsB for a two-outcome pair, or NaN when
// either price is invalid (non-finite or <= 1).
func ImpliedSum(oddsA, oddsB float64) float64 {
	if !validOdds(oddsA) || !validOdds(oddsB) {
		return math.NaN()
	}
	return 1/oddsA + 1/oddsB
}

// RoiPercent returns the guaranteed return on total stake for an arbitrage
// pair, as a percentage: (1 - impliedSum) * 100. NaN on invalid prices.
func RoiPercent(oddsA, oddsB float64) float64 {
	s := ImpliedSum(oddsA, oddsB)
	if math.IsNaN(s) {
		return math.NaN()
	}
	return (1 - s) * 100
}

// IsArbitrage reports whether the pair is strictly profitable and clears the
// caller's ROI floor.
func IsArbitrage(oddsA, oddsB, minRoiPercent float64) bool {
	roi := RoiPercent(oddsA, oddsB)
	return !math.IsNaN(roi) && roi > 0 && roi >= minRoiPercent
}

// StakePlan is a bankroll split across two arbitrage legs that pays the same
// amount whichever outcome lands.
type StakePlan struct {
	StakeA     float64 `json:"stake_a"`
	StakeB     float64 `json:"stake_b"`
	TotalStake float64 `json:"total_stake"`
	Payout     float64 `json:"payout"`
	Profit     float64 `json:"profit"`
	RoiPercent float64 `json:"roi_percent"`
}

// Plan computes equal-payout stakes proportional to implied probabilities.
//
// Degenerate bankroll → all zeros, ROI NaN. Degenerate odds → zero stakes,
// total stake = bankroll, ROI NaN. The guaranteed payout is the minimum of
// the two leg payouts: real-world rounding must never assume the impossible
// larger one.
func Plan(bankroll, oddsA, oddsB float64) StakePlan {
	if math.IsNaN(bankroll) || math.IsInf(bankroll, 0) || bankroll <= 0 {
		return StakePlan{RoiPercent: math.NaN()}
	}

	s := ImpliedSum(oddsA, oddsB)
	if math.IsNaN(s) {
		return StakePlan{TotalStake: bankroll, RoiPercent: math.NaN()}
	}

	stakeA := bankroll * (1 / oddsA) / s
	stakeB := bankroll * (1 / oddsB) / s

	payout := math.Min(stakeA*oddsA, stakeB*oddsB)
	totalStake := stakeA + stakeB
	profit := payout - totalStake

	roi := math.NaN()
	if totalStake > 0 {
		roi = profit / totalStake * 100
	}

	return StakePlan{
		StakeA:     stakeA,
		StakeB:     stakeB,
		TotalStake: totalStake,
		Payout:     payout,
		Profit:     profit,
		RoiPercent: roi,
	}
}

// RoundedStakes returns the plan's stakes rounded to cents for display.
// Rounding down on both legs keeps the total within the bankroll.
func (p StakePlan) RoundedStakes() (stakeA, stakeB decimal.Decimal) {
	return decimal.NewFromFloat(p.StakeA).RoundDown(2), decimal.NewFromFloat(p.StakeB).RoundDown(2)
}

func validOdds(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 1
}
