// Package rating builds transient per-player skill ratings from historical
// results and exposes them as pluggable blending strategies for the
// fair-probability engine.
package rating

import (
	"math"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
	"github.com/cypherlabdev/odds-insight-service/pkg/normalize"
)

const (
	// DefaultRating is assigned to players with no rated history.
	DefaultRating = 1500.0
	// DefaultKFactor is the per-match rating step.
	DefaultKFactor = 24.0
)

// Index holds running Elo ratings keyed by normalized player name. Built
// fresh per computation from a bounded, oldest-first history window; never
// persisted as derived state.
type Index struct {
	k       float64
	ratings map[string]float64
	games   map[string]int
}

// NewIndex creates an empty index. k <= 0 falls back to DefaultKFactor.
func NewIndex(k float64) *Index {
	if k <= 0 {
		k = DefaultKFactor
	}
	return &Index{
		k:       k,
		ratings: make(map[string]float64),
		games:   make(map[string]int),
	}
}

// BuildIndex replays a chronologically ordered (oldest first) result history.
func BuildIndex(results []models.Result, k float64) *Index {
	ix := NewIndex(k)
	for _, r := range results {
		ix.Record(r)
	}
	return ix
}

// Record applies one historical result. Results without an unambiguous
// winner and self-matches are skipped entirely and do not perturb ratings.
func (ix *Index) Record(r models.Result) {
	winner := normalize.Name(r.WinnerKey)
	if winner != models.OutcomeHome && winner != models.OutcomeAway {
		return
	}

	home := normalize.Name(r.HomeName)
	away := normalize.Name(r.AwayName)
	if home == "" || away == "" || home == away {
		return
	}

	eloHome := ix.Rating(home)
	eloAway := ix.Rating(away)

	expectedHome := WinProbability(eloHome, eloAway)
	scoreHome := 0.0
	if winner == models.OutcomeHome {
		scoreHome = 1.0
	}
	delta := ix.k * (scoreHome - expectedHome)

	ix.ratings[home] = eloHome + delta
	ix.ratings[away] = eloAway - delta
	ix.games[home]++
	ix.games[away]++
}

// Rating returns the player's current rating, DefaultRating if unseen.
func (ix *Index) Rating(name string) float64 {
	if r, ok := ix.ratings[normalize.Name(name)]; ok {
		return r
	}
	return DefaultRating
}

// GamesPlayed returns the number of rated matches for the player.
func (ix *Index) GamesPlayed(name string) int {
	return ix.games[normalize.Name(name)]
}

// WinProbability is the standard Elo expectation for the first player.
func WinProbability(eloA, eloB float64) float64 {
	return 1 / (1 + math.Pow(10, (eloB-eloA)/400))
}
